// internal/app/features/reports/routes.go
package reports

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for daily reports. Mounted under /reports
// behind RequireSignedIn.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeSubmit)
	r.Get("/", h.ServeGet)
	r.Get("/history", h.ServeHistory)
	r.Get("/carryover", h.ServeCarryover)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
