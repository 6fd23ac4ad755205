package reporting

import (
	"time"

	"github.com/workhubhq/workhub/internal/domain/models"
)

// Summary is one member's submission status for a date, as shown on the
// admin dashboard. Members who have not submitted appear with HasSubmitted
// false and empty task lists.
type Summary struct {
	UserID              string        `json:"user_id"`
	UserName            string        `json:"user_name"`
	UserEmail           string        `json:"user_email"`
	UserRole            string        `json:"user_role"`
	ReportDate          string        `json:"report_date"`
	HasSubmitted        bool          `json:"has_submitted"`
	YesterdayTotalHours float64       `json:"yesterday_total_hours"`
	TodayTotalHours     float64       `json:"today_total_hours"`
	YesterdayTasks      []models.Task `json:"yesterday_tasks"`
	TodayTasks          []models.Task `json:"today_tasks"`
	Notes               string        `json:"notes,omitempty"`
	SubmittedAt         *time.Time    `json:"submitted_at"`
}

// BuildSummary joins the active roster against the reports submitted for a
// date. One entry per profile, in roster order.
func BuildSummary(date string, profiles []models.Profile, reports []models.Report) []Summary {
	byUser := make(map[string]*models.Report, len(reports))
	for i := range reports {
		byUser[reports[i].UserID.Hex()] = &reports[i]
	}

	out := make([]Summary, 0, len(profiles))
	for _, p := range profiles {
		sum := Summary{
			UserID:         p.ID.Hex(),
			UserName:       p.Name,
			UserEmail:      p.Email,
			UserRole:       p.Role,
			ReportDate:     date,
			YesterdayTasks: []models.Task{},
			TodayTasks:     []models.Task{},
		}
		if rep, ok := byUser[p.ID.Hex()]; ok {
			sum.HasSubmitted = true
			sum.YesterdayTotalHours = TotalHours(rep.YesterdayTasks)
			sum.TodayTotalHours = TotalHours(rep.TodayTasks)
			sum.YesterdayTasks = rep.YesterdayTasks
			sum.TodayTasks = rep.TodayTasks
			sum.Notes = rep.Notes
			submitted := rep.SubmittedAt
			sum.SubmittedAt = &submitted
		}
		out = append(out, sum)
	}
	return out
}
