package authgoogle

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func testHandler(t *testing.T, clientID, clientSecret string) *Handler {
	t.Helper()
	mgr, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "workhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(nil, nil, mgr, clientID, clientSecret, "http://localhost:8080", zap.NewNop())
}

func TestServeLoginUnconfiguredRedirects(t *testing.T) {
	h := testHandler(t, "", "")

	req := httptest.NewRequest("GET", "/auth/google", nil)
	rec := httptest.NewRecorder()

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_not_configured" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallbackRejectsOAuthError(t *testing.T) {
	h := testHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_denied" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallbackRequiresState(t *testing.T) {
	h := testHandler(t, "client-id", "client-secret")

	req := httptest.NewRequest("GET", "/auth/google/callback?code=abc", nil)
	rec := httptest.NewRecorder()

	h.ServeCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=invalid_state" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRedirectURLDerivedFromBase(t *testing.T) {
	h := testHandler(t, "client-id", "client-secret")
	if h.RedirectURL != "http://localhost:8080/auth/google/callback" {
		t.Errorf("RedirectURL = %q", h.RedirectURL)
	}
}
