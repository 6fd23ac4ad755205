package export

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/workhubhq/workhub/internal/app/system/auth"
)

func newTestSessions(t *testing.T) *auth.SessionManager {
	t.Helper()
	mgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "workhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	return mgr
}

func TestServeMonthlyHours_BadMonth(t *testing.T) {
	h := &Handler{Log: zap.NewNop()}

	for _, month := range []string{"2026", "2026-13", "aug-2026", "2026-08-01"} {
		req := httptest.NewRequest(http.MethodGet, "/monthly-hours?month="+month, nil)
		rec := httptest.NewRecorder()
		h.ServeMonthlyHours(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("month %q: status = %d, want %d", month, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestServeExportCSV_BadMonth(t *testing.T) {
	h := &Handler{Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodPost, "/export/csv?month=08-2026", nil)
	rec := httptest.NewRecorder()
	h.ServeExportCSV(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeExportSheet_RequiresProviderToken(t *testing.T) {
	h := &Handler{Log: zap.NewNop(), Sessions: newTestSessions(t)}

	req := httptest.NewRequest(http.MethodPost, "/export/spreadsheet", nil)
	rec := httptest.NewRecorder()
	h.ServeExportSheet(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "Google") {
		t.Errorf("body should point at Google login, got %q", rec.Body.String())
	}
}

func TestFormatHours(t *testing.T) {
	cases := map[float64]string{
		0:    "0",
		8:    "8",
		7.5:  "7.5",
		0.25: "0.25",
	}
	for in, want := range cases {
		if got := formatHours(in); got != want {
			t.Errorf("formatHours(%v) = %q, want %q", in, got, want)
		}
	}
}
