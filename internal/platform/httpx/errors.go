// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/buildmat/buildmat/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Anything that is not a known caller error is reported as 500 without detail.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrInvalidInput):
		Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
