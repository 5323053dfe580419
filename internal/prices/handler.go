package prices

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buildmat/buildmat/internal/platform/httpx"
	"github.com/buildmat/buildmat/internal/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type priceService interface {
	ListAll(ctx context.Context) ([]Record, error)
	MostRecent(ctx context.Context, filter CurrentFilter) ([]Record, error)
	Append(ctx context.Context, req AppendPriceRequest) (Record, error)
	PriceEvolution(ctx context.Context, category string, productID int64) ([]EvolutionPoint, error)
	Export(ctx context.Context, w io.Writer) error
}

type Handler struct {
	logger  *slog.Logger
	service priceService
}

func NewHandler(logger *slog.Logger, service priceService) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListAll(r.Context())
	if err != nil {
		h.fail(w, "list prices failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	filter := CurrentFilter{Category: r.URL.Query().Get("category")}
	if raw := r.URL.Query().Get("supplierId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: supplierId must be an integer", shared.ErrInvalidInput))
			return
		}
		filter.SupplierID = id
	}
	records, err := h.service.MostRecent(r.Context(), filter)
	if err != nil {
		h.fail(w, "current prices failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	var req AppendPriceRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.Append(r.Context(), req)
	if err != nil {
		h.fail(w, "append price failed", err)
		return
	}
	h.logger.Info("price recorded", "id", rec.ID, "supplier_id", rec.SupplierID, "category", rec.Category)
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: productId must be an integer", shared.ErrInvalidInput))
		return
	}
	points, err := h.service.PriceEvolution(r.Context(), chi.URLParam(r, "category"), productID)
	if err != nil {
		h.fail(w, "price evolution failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, points)
}

// Export streams the ledger as a spreadsheet download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="prices.xlsx"`)
	if err := h.service.Export(r.Context(), w); err != nil {
		w.Header().Del("Content-Disposition")
		h.fail(w, "export prices failed", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	httpx.RespondError(w, err)
}
