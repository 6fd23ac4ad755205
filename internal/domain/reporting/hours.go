// Package reporting holds the pure roll-up logic for daily reports: task
// hour totals, per-member monthly aggregation, and the submission dashboard
// summary. Everything here operates on slices already loaded from the
// stores, so the rules are testable without a database.
package reporting

import "github.com/workhubhq/workhub/internal/domain/models"

// TotalHours sums the hours across a task list. Actual hours win over
// planned hours for the same task; a task with neither contributes zero.
func TotalHours(tasks []models.Task) float64 {
	var total float64
	for _, t := range tasks {
		switch {
		case t.ActualHours != nil:
			total += *t.ActualHours
		case t.PlannedHours != nil:
			total += *t.PlannedHours
		}
	}
	return total
}
