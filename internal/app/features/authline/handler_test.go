package authline

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/auth"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"go.uber.org/zap"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testHandler(t *testing.T, login *line.LoginClient) *Handler {
	t.Helper()
	mgr, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "workhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(login, nil, nil, mgr, zap.NewNop())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{"abc123_link", ModeLink},
		{"abc123_login", ModeLogin},
		{"abc123", ModeLogin},
		{"", ModeLogin},
		{"a_b_c_link", ModeLink},
		{"abc_linkx", ModeLogin},
	}
	for _, tt := range tests {
		if got := parseMode(tt.state); got != tt.want {
			t.Errorf("parseMode(%q) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestServeStartUnconfiguredRedirects(t *testing.T) {
	h := testHandler(t, line.NewLoginClient("", "", "http://localhost:8080/auth/line/callback"))

	req := httptest.NewRequest("GET", "/auth/line/start", nil)
	rec := httptest.NewRecorder()

	h.ServeStart(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=line_not_configured" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeStartLinkModeRequiresSession(t *testing.T) {
	h := testHandler(t, line.NewLoginClient("channel-id", "channel-secret", "http://localhost:8080/auth/line/callback"))

	req := httptest.NewRequest("GET", "/auth/line/start?mode=link", nil)
	rec := httptest.NewRecorder()

	h.ServeStart(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=not_logged_in" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallbackProviderErrorRedirectsByMode(t *testing.T) {
	h := testHandler(t, line.NewLoginClient("channel-id", "channel-secret", "http://localhost:8080/auth/line/callback"))

	// Link-mode failures land back on settings.
	req := httptest.NewRequest("GET", "/auth/line/callback?error=access_denied&state=abc_link", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "member"})
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/settings?error=access_denied" {
		t.Errorf("Location = %q", loc)
	}

	// Login-mode failures land on the login page.
	req = httptest.NewRequest("GET", "/auth/line/callback?error=access_denied&state=abc_login", nil)
	rec = httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login?error=access_denied" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallbackRequiresCode(t *testing.T) {
	h := testHandler(t, line.NewLoginClient("channel-id", "channel-secret", "http://localhost:8080/auth/line/callback"))

	req := httptest.NewRequest("GET", "/auth/line/callback?state=abc_login", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if loc := rec.Header().Get("Location"); loc != "/login?error=no_code" {
		t.Errorf("Location = %q", loc)
	}
}
