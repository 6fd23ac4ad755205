package profile

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func signedIn(req *http.Request) *http.Request {
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "Alice",
		Role: "member",
	})
}

func TestServeGetRequiresSession(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	req := httptest.NewRequest("GET", "/me", nil)
	rec := httptest.NewRecorder()

	h.ServeGet(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeUpdateRequiresSession(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	req := httptest.NewRequest("PATCH", "/me", strings.NewReader(`{"name":"New"}`))
	rec := httptest.NewRecorder()

	h.ServeUpdate(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeUpdateRejectsRoleChange(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{"role", `{"name":"Alice","role":"admin"}`},
		{"is_active", `{"name":"Alice","is_active":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signedIn(httptest.NewRequest("PATCH", "/me", strings.NewReader(tt.body)))
			rec := httptest.NewRecorder()

			h.ServeUpdate(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
			}
		})
	}
}

func TestServeUpdateValidatesName(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing name", `{}`},
		{"blank name", `{"name":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signedIn(httptest.NewRequest("PATCH", "/me", strings.NewReader(tt.body)))
			rec := httptest.NewRecorder()

			h.ServeUpdate(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}
