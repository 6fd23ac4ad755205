// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/store/reports"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/app/system/workdate"
	"github.com/workhubhq/workhub/internal/domain/reporting"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the team submission dashboard and per-member statistics.
type Handler struct {
	Log      *zap.Logger
	Profiles *profilestore.Store
	Reports  *reportstore.Store
}

func NewHandler(profiles *profilestore.Store, reports *reportstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Profiles: profiles, Reports: reports}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/status?date=                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

type statusResponse struct {
	Date           string              `json:"date"`
	SubmittedCount int                 `json:"submitted_count"`
	TotalCount     int                 `json:"total_count"`
	Summaries      []reporting.Summary `json:"summaries"`
}

// ServeStatus handles GET /dashboard/status. Every signed-in user sees the
// whole team's submission state for the day.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	date := query.Get(r, "date")
	if date == "" {
		date = workdate.Today()
	}
	if !workdate.IsValid(date) {
		respond.ErrorKind(w, apperr.Validation, "date must be YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profiles, err := h.Profiles.ListActive(ctx)
	if err != nil {
		h.Log.Error("roster load failed", zap.Error(err))
		respond.Error(w, err)
		return
	}
	reports, err := h.Reports.ListByDate(ctx, date)
	if err != nil {
		h.Log.Error("reports load failed", zap.Error(err), zap.String("date", date))
		respond.Error(w, err)
		return
	}

	summaries := reporting.BuildSummary(date, profiles, reports)
	submitted := 0
	for _, s := range summaries {
		if s.HasSubmitted {
			submitted++
		}
	}

	respond.JSON(w, http.StatusOK, statusResponse{
		Date:           date,
		SubmittedCount: submitted,
		TotalCount:     len(summaries),
		Summaries:      summaries,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard/users/{id}/stats?period=7days|30days|90days                   |
*─────────────────────────────────────────────────────────────────────────────*/

var periodDays = map[string]int{
	"7days":  7,
	"30days": 30,
	"90days": 90,
}

type statsResponse struct {
	UserID     string               `json:"user_id"`
	Period     string               `json:"period"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	Statistics reporting.Statistics `json:"statistics"`
}

// ServeUserStats handles GET /dashboard/users/{id}/stats.
func (h *Handler) ServeUserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid user id")
		return
	}

	period := query.Get(r, "period")
	if period == "" {
		period = "30days"
	}
	days, ok := periodDays[period]
	if !ok {
		respond.ErrorKind(w, apperr.Validation, "period must be 7days, 30days, or 90days")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	start, end := workdate.PeriodRange(days)
	reports, err := h.Reports.ListByUserRange(ctx, userID, start, end)
	if err != nil {
		h.Log.Error("stats load failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, statsResponse{
		UserID:     userID.Hex(),
		Period:     period,
		StartDate:  start,
		EndDate:    end,
		Statistics: reporting.ComputeStatistics(reports),
	})
}
