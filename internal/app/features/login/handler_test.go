package login

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	mgr, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "workhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	// Profiles stays nil: these tests only cover paths that reject before
	// any database access.
	return NewHandler(nil, mgr, zap.NewNop())
}

func TestServeSignupValidation(t *testing.T) {
	h := testHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing email", `{"password":"longenough","name":"Alice"}`},
		{"email without at", `{"email":"nope","password":"longenough","name":"Alice"}`},
		{"short password", `{"email":"a@example.com","password":"short","name":"Alice"}`},
		{"missing name", `{"email":"a@example.com","password":"longenough"}`},
		{"whitespace name", `{"email":"a@example.com","password":"longenough","name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/signup", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.ServeSignup(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestServeLoginRejectsMalformedBody(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	h.ServeLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeLogoutClearsSession(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.ServeLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}
