package suppliers

import (
	"fmt"
	"strings"

	"github.com/buildmat/buildmat/internal/shared"
)

func validateCreate(req CreateSupplierRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: supplier name is required", shared.ErrInvalidInput)
	}
	return shared.Validate(req)
}

func validateUpdate(req UpdateSupplierRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("%w: supplier name cannot be blank", shared.ErrInvalidInput)
	}
	return shared.Validate(req)
}
