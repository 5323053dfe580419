package catalog

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{family}", h.Show)
	r.Get("/{family}/compute", h.Compute)
	r.Get("/{family}/compute-all", h.ComputeAll)
}
