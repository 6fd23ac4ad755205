// internal/app/features/export/routes.go
package export

import "github.com/go-chi/chi/v5"

// Routes returns the aggregation/export subrouter. Mounted under /admin
// behind RequireRole("admin").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/monthly-hours", h.ServeMonthlyHours)
	r.Post("/export/csv", h.ServeExportCSV)
	r.Post("/export/spreadsheet", h.ServeExportSheet)
	return r
}
