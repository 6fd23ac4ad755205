// internal/app/features/dashboard/routes.go
package dashboard

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the team dashboard. Mounted under
// /dashboard behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.ServeStatus)
	r.Get("/users/{id}/stats", h.ServeUserStats)
	return r
}
