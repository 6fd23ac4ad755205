// internal/app/features/reminder/routes.go
package reminder

import "github.com/go-chi/chi/v5"

// Routes returns the scheduler-facing subrouter. Mounted under
// /api/cron/reminder with no session middleware; the handler checks its own
// bearer secret. GET matches hosted cron services, POST matches manual runs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSweep)
	r.Post("/", h.ServeSweep)
	return r
}
