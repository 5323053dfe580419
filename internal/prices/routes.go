package prices

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Append)
	r.Get("/current", h.Current)
	r.Get("/export", h.Export)
	r.Get("/history/{category}/{productId}", h.History)
}
