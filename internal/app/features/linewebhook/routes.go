// internal/app/features/linewebhook/routes.go
package linewebhook

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the LINE webhook. Mounted under
// /api/line/webhook; authentication is the request signature, not a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeVerify)
	r.Post("/", h.ServeWebhook)
	return r
}
