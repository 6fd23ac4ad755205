// internal/app/features/reports/handler.go
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/store/reports"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/authz"
	"github.com/workhubhq/workhub/internal/app/system/htmlsanitize"
	"github.com/workhubhq/workhub/internal/app/system/limits"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/app/system/workdate"
	"github.com/workhubhq/workhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in member's daily reports: submission, lookup,
// history, carryover prefill, and deletion.
type Handler struct {
	Log      *zap.Logger
	Reports  *reportstore.Store
	Profiles *profilestore.Store
	Line     *line.Client
	AppURL   string
}

func NewHandler(reports *reportstore.Store, profiles *profilestore.Store, lineClient *line.Client, appURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Reports:  reports,
		Profiles: profiles,
		Line:     lineClient,
		AppURL:   appURL,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /reports                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

type submitRequest struct {
	ReportDate     string        `json:"report_date"`
	YesterdayTasks []models.Task `json:"yesterday_tasks"`
	TodayTasks     []models.Task `json:"today_tasks"`
	Notes          string        `json:"notes"`
}

// cleanTasks trims task names and drops entries whose name is empty or whose
// hours come to zero (actual first, then planned). Negative hour values fail
// validation instead of being clamped.
func cleanTasks(in []models.Task) ([]models.Task, error) {
	out := make([]models.Task, 0, len(in))
	for _, t := range in {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		if t.ActualHours != nil && *t.ActualHours < 0 {
			return nil, errors.New("actual hours cannot be negative")
		}
		if t.PlannedHours != nil && *t.PlannedHours < 0 {
			return nil, errors.New("planned hours cannot be negative")
		}
		hours := 0.0
		switch {
		case t.ActualHours != nil:
			hours = *t.ActualHours
		case t.PlannedHours != nil:
			hours = *t.PlannedHours
		}
		if hours == 0 {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ServeSubmit handles POST /reports. Resubmitting for the same date replaces
// the earlier submission wholesale.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	_, userName, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, limits.MaxReportBodySize)).Decode(&req); err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid JSON body")
		return
	}

	date := req.ReportDate
	if date == "" {
		date = workdate.Today()
	}
	if !workdate.IsValid(date) {
		respond.ErrorKind(w, apperr.Validation, "report_date must be YYYY-MM-DD")
		return
	}

	yesterday, err := cleanTasks(req.YesterdayTasks)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, err.Error())
		return
	}
	today, err := cleanTasks(req.TodayTasks)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, err.Error())
		return
	}
	if len(yesterday) == 0 && len(today) == 0 {
		respond.ErrorKind(w, apperr.Validation, "at least one task is required")
		return
	}

	notes := htmlsanitize.PlainText(req.Notes)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rep, err := h.Reports.Upsert(ctx, userID, date, yesterday, today, notes)
	if err != nil {
		h.Log.Error("report upsert failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	h.Log.Info("report submitted",
		zap.String("user_id", userID.Hex()),
		zap.String("report_date", date))

	// Notify admins over LINE; the submission already succeeded, so this
	// only ever logs.
	go h.notifyAdmins(userName, date, userID.Hex())

	respond.JSON(w, http.StatusOK, rep)
}

// notifyAdmins pushes a submission notice to every LINE-linked admin.
func (h *Handler) notifyAdmins(userName, date, userID string) {
	if !h.Line.IsConfigured() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	admins, err := h.Profiles.ListActiveLinked(ctx)
	if err != nil {
		h.Log.Warn("admin notification roster load failed", zap.Error(err))
		return
	}

	msg := line.AdminNotificationMessage(userName, date, userID, h.AppURL)
	for _, p := range admins {
		if p.Role != models.RoleAdmin || p.LineUserID == nil {
			continue
		}
		if err := h.Line.Push(ctx, *p.LineUserID, msg); err != nil {
			h.Log.Warn("admin notification push failed",
				zap.Error(err), zap.String("admin_id", p.ID.Hex()))
		}
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reports?date=                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	date := query.Get(r, "date")
	if date == "" {
		date = workdate.Today()
	}
	if !workdate.IsValid(date) {
		respond.ErrorKind(w, apperr.Validation, "date must be YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rep, err := h.Reports.GetByUserAndDate(ctx, userID, date)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.ErrorKind(w, apperr.NotFound, "no report for this date")
		return
	}
	if err != nil {
		h.Log.Error("report load failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, rep)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reports/history?limit=                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	limit := int64(30)
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 365 {
			respond.ErrorKind(w, apperr.Validation, "limit must be between 1 and 365")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reps, err := h.Reports.ListByUser(ctx, userID, limit)
	if err != nil {
		h.Log.Error("report history failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}
	if reps == nil {
		reps = []models.Report{}
	}

	respond.JSON(w, http.StatusOK, map[string]any{"reports": reps})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reports/carryover?date=                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCarryover returns the previous day's planned tasks so the form can
// prefill today's actuals. Missing previous report yields an empty list.
func (h *Handler) ServeCarryover(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	date := query.Get(r, "date")
	if date == "" {
		date = workdate.Today()
	}
	if !workdate.IsValid(date) {
		respond.ErrorKind(w, apperr.Validation, "date must be YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	prevDate, err := workdate.PrevDay(date)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "date must be YYYY-MM-DD")
		return
	}

	tasks := []models.Task{}
	prev, err := h.Reports.GetByUserAndDate(ctx, userID, prevDate)
	switch {
	case err == nil:
		if prev.TodayTasks != nil {
			tasks = prev.TodayTasks
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		// Nothing to carry over.
	default:
		h.Log.Error("carryover load failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /reports/{id}                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	reportID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid report id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// The owner filter makes someone else's report indistinguishable from
	// a missing one.
	deleted, err := h.Reports.DeleteOwned(ctx, reportID, userID)
	if err != nil {
		h.Log.Error("report delete failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}
	if deleted == 0 {
		respond.ErrorKind(w, apperr.NotFound, "report not found")
		return
	}

	h.Log.Info("report deleted",
		zap.String("user_id", userID.Hex()),
		zap.String("report_id", reportID.Hex()))
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
