// internal/app/features/adminusers/routes.go
package adminusers

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for user administration. Mounted under
// /admin/users behind RequireRole("admin").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Patch("/{id}/role", h.ServeSetRole)
	r.Patch("/{id}/status", h.ServeSetStatus)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
