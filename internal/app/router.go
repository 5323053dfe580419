package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/buildmat/buildmat/internal/catalog"
	"github.com/buildmat/buildmat/internal/observability"
	"github.com/buildmat/buildmat/internal/platform/httpx"
	"github.com/buildmat/buildmat/internal/prices"
	"github.com/buildmat/buildmat/internal/suppliers"
	"github.com/buildmat/buildmat/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	CatalogHandler  *catalog.Handler
	SupplierHandler *suppliers.Handler
	PriceHandler    *prices.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with buildmat defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/catalog", params.CatalogHandler.MountRoutes)
	r.Route("/suppliers", params.SupplierHandler.MountRoutes)
	r.Route("/prices", params.PriceHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", r.Method+" "+r.URL.Path)
	})

	return r
}

// NewHandlers builds the HTTP handlers for services.
func NewHandlers(logger *slog.Logger, services *Services) (*catalog.Handler, *suppliers.Handler, *prices.Handler) {
	return catalog.NewHandler(logger, services.Catalog),
		suppliers.NewHandler(logger, services.Suppliers),
		prices.NewHandler(logger, services.Prices)
}
