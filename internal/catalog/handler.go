package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buildmat/buildmat/internal/platform/httpx"
	"github.com/buildmat/buildmat/internal/shared"
	"github.com/buildmat/buildmat/internal/units"
)

type catalogService interface {
	Catalog(ctx context.Context, family Family) (any, error)
	Blocks(ctx context.Context, wallWidthM, wallHeightM float64, blockID int64) (BlockResult, error)
	AllBlocks(ctx context.Context, wallWidthM, wallHeightM float64) ([]BlockResult, error)
	Insulation(ctx context.Context, areaM2 float64, productID int64) (InsulationResult, error)
	AllInsulation(ctx context.Context, areaM2 float64) ([]InsulationResult, error)
}

// Handler exposes the catalogs and calculators over HTTP.
type Handler struct {
	logger  *slog.Logger
	service catalogService
}

func NewHandler(logger *slog.Logger, service catalogService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	family, err := ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cat, err := h.service.Catalog(r.Context(), family)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cat)
}

func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, false)
}

func (h *Handler) ComputeAll(w http.ResponseWriter, r *http.Request) {
	h.compute(w, r, true)
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request, all bool) {
	family, err := ParseFamily(chi.URLParam(r, "family"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	variantID, err := optionalInt(q, "variantId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var result any
	switch family {
	case FamilyBlocks:
		width, height, perr := wallSize(q)
		if perr != nil {
			h.fail(w, r, perr)
			return
		}
		if all {
			result, err = h.service.AllBlocks(r.Context(), width, height)
		} else {
			result, err = h.service.Blocks(r.Context(), width, height, variantID)
		}
	case FamilyInsulation:
		area, perr := requiredFloat(q, "area")
		if perr != nil {
			h.fail(w, r, perr)
			return
		}
		if all {
			result, err = h.service.AllInsulation(r.Context(), area)
		} else {
			result, err = h.service.Insulation(r.Context(), area, variantID)
		}
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("catalog request failed", "path", r.URL.Path, "error", err)
	httpx.RespondError(w, err)
}

// wallSize reads width and height in the requested unit (metres by default)
// and converts them to metres.
func wallSize(q url.Values) (float64, float64, error) {
	width, err := requiredFloat(q, "width")
	if err != nil {
		return 0, 0, err
	}
	height, err := requiredFloat(q, "height")
	if err != nil {
		return 0, 0, err
	}
	unit := q.Get("unit")
	if unit == "" {
		unit = string(units.Metre)
	}
	if width, err = units.ToMetres(width, unit); err != nil {
		return 0, 0, err
	}
	if height, err = units.ToMetres(height, unit); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func requiredFloat(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: query parameter %q is required", shared.ErrInvalidInput, name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q: %v", shared.ErrInvalidInput, name, err)
	}
	return v, nil
}

func optionalInt(q url.Values, name string) (int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q: %v", shared.ErrInvalidInput, name, err)
	}
	return v, nil
}
