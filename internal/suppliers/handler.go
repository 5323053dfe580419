package suppliers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buildmat/buildmat/internal/platform/httpx"
	"github.com/buildmat/buildmat/internal/shared"
)

type supplierService interface {
	List(ctx context.Context, activeOnly bool) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, bool, error)
	ListByCategory(ctx context.Context, category string) ([]Supplier, error)
	Create(ctx context.Context, req CreateSupplierRequest) (Supplier, error)
	Update(ctx context.Context, id int64, req UpdateSupplierRequest) (Supplier, bool, error)
	Deactivate(ctx context.Context, id int64) (bool, error)
}

type Handler struct {
	logger  *slog.Logger
	service supplierService
}

func NewHandler(logger *slog.Logger, service supplierService) *Handler {
	return &Handler{logger: logger, service: service}
}

// List serves GET /suppliers. activeOnly defaults to true; category narrows
// the result to active suppliers selling it.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		list, err := h.service.ListByCategory(r.Context(), category)
		if err != nil {
			h.fail(w, "list suppliers by category failed", err)
			return
		}
		httpx.JSON(w, http.StatusOK, list)
		return
	}

	activeOnly := true
	if raw := q.Get("activeOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: activeOnly must be a boolean", shared.ErrInvalidInput))
			return
		}
		activeOnly = v
	}
	list, err := h.service.List(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, "list suppliers failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := supplierIDParam(w, r)
	if !ok {
		return
	}
	sup, found, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get supplier failed", err, "id", id)
		return
	}
	if !found {
		notFound(w, id)
		return
	}
	httpx.JSON(w, http.StatusOK, sup)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sup, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, "create supplier failed", err)
		return
	}
	h.logger.Info("supplier created", "id", sup.ID, "name", sup.Name)
	httpx.JSON(w, http.StatusCreated, sup)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := supplierIDParam(w, r)
	if !ok {
		return
	}
	var req UpdateSupplierRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	sup, found, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, "update supplier failed", err, "id", id)
		return
	}
	if !found {
		notFound(w, id)
		return
	}
	httpx.JSON(w, http.StatusOK, sup)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := supplierIDParam(w, r)
	if !ok {
		return
	}
	found, err := h.service.Deactivate(r.Context(), id)
	if err != nil {
		h.fail(w, "deactivate supplier failed", err, "id", id)
		return
	}
	if !found {
		notFound(w, id)
		return
	}
	h.logger.Info("supplier deactivated", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error, attrs ...any) {
	h.logger.Error(msg, append(attrs, "error", err)...)
	httpx.RespondError(w, err)
}

func supplierIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: invalid supplier id", shared.ErrInvalidInput))
		return 0, false
	}
	return id, true
}

func notFound(w http.ResponseWriter, id int64) {
	httpx.RespondError(w, fmt.Errorf("%w: supplier %d", shared.ErrNotFound, id))
}
