// internal/app/features/authline/routes.go
package authline

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for LINE Login. Mounted under /auth/line.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/start", h.ServeStart)
	r.Get("/callback", h.ServeCallback)
	return r
}
