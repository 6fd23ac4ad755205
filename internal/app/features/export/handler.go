// internal/app/features/export/handler.go
package export

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/store/reports"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/auth"
	"github.com/workhubhq/workhub/internal/app/system/csvutil"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/sheets"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/app/system/workdate"
	"github.com/workhubhq/workhub/internal/domain/reporting"
	"go.uber.org/zap"
)

// Column headers shared by the CSV and spreadsheet exports.
var exportHeader = []string{"メンバー名", "稼働時間合計(h)", "集計期間"}

const sheetTab = "WorkLog"

// Handler serves monthly hours aggregation and its CSV / Google Sheets
// exports. All routes are admin-only; the gate lives at the mount.
type Handler struct {
	Log      *zap.Logger
	Profiles *profilestore.Store
	Reports  *reportstore.Store
	Sessions *auth.SessionManager
	Sheets   sheets.Creator
}

func NewHandler(profiles *profilestore.Store, reports *reportstore.Store, sessions *auth.SessionManager, creator sheets.Creator, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		Profiles: profiles,
		Reports:  reports,
		Sessions: sessions,
		Sheets:   creator,
	}
}

// monthParam reads ?month=YYYY-MM, defaulting to the current JST month.
func monthParam(r *http.Request) (month, start, end string, err error) {
	month = query.Get(r, "month")
	if month == "" {
		month = workdate.Today()[:7]
	}
	start, end, err = workdate.MonthOf(month)
	return month, start, end, err
}

// monthlyHours aggregates worked hours for every active member over the
// calendar month [start, end].
func (h *Handler) monthlyHours(ctx context.Context, start, end string) ([]reporting.MemberHours, error) {
	qStart, qEnd, err := workdate.ShiftReportWindow(start, end)
	if err != nil {
		return nil, err
	}

	profiles, err := h.Profiles.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	reps, err := h.Reports.ListByRange(ctx, qStart, qEnd)
	if err != nil {
		return nil, fmt.Errorf("load reports: %w", err)
	}
	return reporting.AggregateHours(profiles, reps), nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/monthly-hours?month=YYYY-MM                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type monthlyResponse struct {
	Month     string                  `json:"month"`
	StartDate string                  `json:"startDate"`
	EndDate   string                  `json:"endDate"`
	Users     []reporting.MemberHours `json:"users"`
}

func (h *Handler) ServeMonthlyHours(w http.ResponseWriter, r *http.Request) {
	month, start, end, err := monthParam(r)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "month must be YYYY-MM")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.monthlyHours(ctx, start, end)
	if err != nil {
		h.Log.Error("monthly aggregation failed", zap.Error(err), zap.String("month", month))
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, monthlyResponse{
		Month:     month,
		StartDate: start,
		EndDate:   end,
		Users:     users,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/export/csv?month=YYYY-MM                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	month, start, end, err := monthParam(r)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "month must be YYYY-MM")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.monthlyHours(ctx, start, end)
	if err != nil {
		h.Log.Error("csv export failed", zap.Error(err), zap.String("month", month))
		respond.Error(w, err)
		return
	}

	period := start + " 〜 " + end
	records := make([][]string, 0, len(users)+1)
	records = append(records, exportHeader)
	for _, u := range users {
		records = append(records, []string{u.UserName, formatHours(u.TotalHours), period})
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "worklog_"+month+".csv"))

	cw := csvutil.NewExportWriter(w)
	if err := cw.WriteAll(records); err != nil {
		// Headers are already gone; just log.
		h.Log.Error("csv write failed", zap.Error(err), zap.String("month", month))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/export/spreadsheet?month=YYYY-MM                                 |
*─────────────────────────────────────────────────────────────────────────────*/

type spreadsheetResponse struct {
	Success        bool   `json:"success"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
}

// ServeExportSheet creates a Google Spreadsheet in the admin's own Drive
// using the OAuth token captured at Google sign-in. Password and LINE logins
// have no token, so they are pointed at Google login instead.
func (h *Handler) ServeExportSheet(w http.ResponseWriter, r *http.Request) {
	token := h.Sessions.ProviderToken(r)
	if token == "" {
		respond.ErrorKind(w, apperr.Validation, "Google account linkage required. Please login with Google.")
		return
	}

	month, start, end, err := monthParam(r)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "month must be YYYY-MM")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	users, err := h.monthlyHours(ctx, start, end)
	if err != nil {
		h.Log.Error("spreadsheet export failed", zap.Error(err), zap.String("month", month))
		respond.Error(w, err)
		return
	}

	period := start + " 〜 " + end
	values := make([][]any, 0, len(users)+1)
	header := make([]any, len(exportHeader))
	for i, c := range exportHeader {
		header[i] = c
	}
	values = append(values, header)
	for _, u := range users {
		values = append(values, []any{u.UserName, u.TotalHours, period})
	}

	url, err := h.Sheets.CreateWithValues(ctx, token, "WorkHub稼働集計_"+month, sheetTab, values)
	if err != nil {
		h.Log.Error("spreadsheet create failed", zap.Error(err), zap.String("month", month))
		respond.Error(w, err)
		return
	}

	h.Log.Info("spreadsheet export complete",
		zap.String("month", month),
		zap.Int("rows", len(users)))
	respond.JSON(w, http.StatusOK, spreadsheetResponse{Success: true, SpreadsheetURL: url})
}
