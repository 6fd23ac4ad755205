// internal/app/features/linking/routes.go
package linking

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for LINE link management. Mounted under
// /api/line/link behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeIssueCode)
	r.Get("/", h.ServeStatus)
	r.Delete("/", h.ServeUnlink)
	return r
}
