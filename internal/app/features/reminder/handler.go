// internal/app/features/reminder/handler.go
package reminder

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/app/system/workdate"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.uber.org/zap"
)

// LinkedRoster lists the profiles eligible for a reminder.
type LinkedRoster interface {
	ListActiveLinked(ctx context.Context) ([]models.Profile, error)
}

// SubmissionLog lists the reports already filed for a date.
type SubmissionLog interface {
	ListByDate(ctx context.Context, date string) ([]models.Report, error)
}

// Multicaster fans a message out to LINE users; *line.Client in production.
type Multicaster interface {
	Multicast(ctx context.Context, lineUserIDs []string, text string) error
}

// Handler runs the morning reminder sweep: every active, LINE-linked member
// who has not submitted today's report gets a multicast nudge. The route is
// hit by an external scheduler, not a browser, so it authenticates with a
// shared bearer secret instead of a session.
type Handler struct {
	Log        *zap.Logger
	Profiles   LinkedRoster
	Reports    SubmissionLog
	Line       Multicaster
	CronSecret string
	AppURL     string
}

func NewHandler(profiles LinkedRoster, reports SubmissionLog, lineClient Multicaster, cronSecret, appURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		Profiles:   profiles,
		Reports:    reports,
		Line:       lineClient,
		CronSecret: cronSecret,
		AppURL:     appURL,
	}
}

// authorized checks the Authorization header against the configured secret.
// An empty secret disables the check (local dev).
func (h *Handler) authorized(r *http.Request) bool {
	if h.CronSecret == "" {
		return true
	}
	header := r.Header.Get("Authorization")
	want := "Bearer " + h.CronSecret
	return subtle.ConstantTimeCompare([]byte(header), []byte(want)) == 1
}

type sweepResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Notified int      `json:"notified"`
	Users    []string `json:"users,omitempty"`
}

func (h *Handler) ServeSweep(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		h.Log.Warn("reminder sweep rejected: bad bearer secret")
		respond.ErrorKind(w, apperr.NotAuthenticated, "unauthorized")
		return
	}

	today := workdate.Today()
	h.Log.Info("reminder sweep started", zap.String("date", today))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	linked, err := h.Profiles.ListActiveLinked(ctx)
	if err != nil {
		h.Log.Error("linked roster load failed", zap.Error(err))
		respond.Error(w, err)
		return
	}
	if len(linked) == 0 {
		respond.JSON(w, http.StatusOK, sweepResponse{
			Success: true, Message: "No LINE-linked users found", Notified: 0,
		})
		return
	}

	todays, err := h.Reports.ListByDate(ctx, today)
	if err != nil {
		h.Log.Error("today's reports load failed", zap.Error(err), zap.String("date", today))
		respond.Error(w, err)
		return
	}
	submitted := make(map[string]bool, len(todays))
	for _, rep := range todays {
		submitted[rep.UserID.Hex()] = true
	}

	var lineIDs, names []string
	for _, p := range linked {
		if submitted[p.ID.Hex()] || p.LineUserID == nil || *p.LineUserID == "" {
			continue
		}
		lineIDs = append(lineIDs, *p.LineUserID)
		names = append(names, p.Name)
	}

	if len(lineIDs) == 0 {
		respond.JSON(w, http.StatusOK, sweepResponse{
			Success: true, Message: "All users have submitted reports", Notified: 0,
		})
		return
	}

	h.Log.Info("sending reminders",
		zap.Int("count", len(lineIDs)),
		zap.String("users", strings.Join(names, ", ")))

	if err := h.Line.Multicast(ctx, lineIDs, line.ReminderMessage("", h.AppURL)); err != nil {
		h.Log.Error("reminder multicast failed", zap.Error(err))
		respond.ErrorKind(w, apperr.Upstream, "failed to send LINE messages")
		return
	}

	respond.JSON(w, http.StatusOK, sweepResponse{
		Success:  true,
		Message:  "Reminder sent to " + strings.Join(names, ", "),
		Notified: len(lineIDs),
		Users:    names,
	})
}
