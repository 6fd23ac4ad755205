package reminder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/workhubhq/workhub/internal/app/system/workdate"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeRoster struct {
	profiles []models.Profile
}

func (f *fakeRoster) ListActiveLinked(context.Context) ([]models.Profile, error) {
	return f.profiles, nil
}

type fakeSubmissions struct {
	reports []models.Report
}

func (f *fakeSubmissions) ListByDate(context.Context, string) ([]models.Report, error) {
	return f.reports, nil
}

type fakeMulticaster struct {
	sentTo []string
	text   string
}

func (f *fakeMulticaster) Multicast(_ context.Context, ids []string, text string) error {
	f.sentTo = append(f.sentTo, ids...)
	f.text = text
	return nil
}

func linkedProfile(name, lineUID string) models.Profile {
	return models.Profile{
		ID:         primitive.NewObjectID(),
		Name:       name,
		LineUserID: &lineUID,
		IsActive:   true,
	}
}

func sweep(h *Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeSweep(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestServeSweep_BearerSecret(t *testing.T) {
	h := &Handler{Log: zap.NewNop(), CronSecret: "sweep-secret"}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer nope", http.StatusUnauthorized},
		{"missing bearer prefix", "sweep-secret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeSweep(rec, req)
			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestServeSweepTargetsNonSubmitters(t *testing.T) {
	tanaka := linkedProfile("田中", "U-1")
	sato := linkedProfile("佐藤", "U-2")
	suzuki := linkedProfile("鈴木", "U-3")

	mc := &fakeMulticaster{}
	h := &Handler{
		Log:      zap.NewNop(),
		Profiles: &fakeRoster{profiles: []models.Profile{tanaka, sato, suzuki}},
		Reports: &fakeSubmissions{reports: []models.Report{
			{UserID: sato.ID, ReportDate: workdate.Today()},
		}},
		Line:   mc,
		AppURL: "https://app.example.com",
	}

	rec := sweep(h)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(mc.sentTo) != 2 || mc.sentTo[0] != "U-1" || mc.sentTo[1] != "U-3" {
		t.Errorf("multicast targets = %v, want the two without a report", mc.sentTo)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"notified":2`) {
		t.Errorf("body = %s", body)
	}
	if !strings.Contains(body, `"users":["田中","鈴木"]`) {
		t.Errorf("named users wrong: %s", body)
	}
}

func TestServeSweepNoLinkedUsers(t *testing.T) {
	h := &Handler{
		Log:      zap.NewNop(),
		Profiles: &fakeRoster{},
		Reports:  &fakeSubmissions{},
		Line:     &fakeMulticaster{},
	}

	rec := sweep(h)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No LINE-linked users found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestServeSweepAllSubmitted(t *testing.T) {
	tanaka := linkedProfile("田中", "U-1")

	mc := &fakeMulticaster{}
	h := &Handler{
		Log:      zap.NewNop(),
		Profiles: &fakeRoster{profiles: []models.Profile{tanaka}},
		Reports: &fakeSubmissions{reports: []models.Report{
			{UserID: tanaka.ID, ReportDate: workdate.Today()},
		}},
		Line: mc,
	}

	rec := sweep(h)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "All users have submitted reports") {
		t.Errorf("body = %s", rec.Body.String())
	}
	if len(mc.sentTo) != 0 {
		t.Errorf("no multicast expected, got %v", mc.sentTo)
	}
}

func TestAuthorized(t *testing.T) {
	h := &Handler{CronSecret: "s3cret"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	if !h.authorized(req) {
		t.Error("exact bearer secret should be accepted")
	}

	open := &Handler{CronSecret: ""}
	if !open.authorized(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Error("empty secret should disable the check")
	}
}
