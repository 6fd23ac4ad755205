package linking

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"go.uber.org/zap"
)

func TestGenerateCode(t *testing.T) {
	sixDigits := regexp.MustCompile(`^\d{6}$`)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if !sixDigits.MatchString(code) {
			t.Fatalf("code %q is not six digits", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes do not vary")
	}
}

func TestEndpointsRequireSession(t *testing.T) {
	h := NewHandler(nil, nil, zap.NewNop())

	calls := []struct {
		name  string
		serve http.HandlerFunc
	}{
		{"issue", h.ServeIssueCode},
		{"status", h.ServeStatus},
		{"unlink", h.ServeUnlink},
	}

	for _, c := range calls {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/line/link", nil)
			rec := httptest.NewRecorder()

			c.serve(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}
