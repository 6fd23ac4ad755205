package reporting_test

import (
	"testing"

	"github.com/workhubhq/workhub/internal/domain/models"
	"github.com/workhubhq/workhub/internal/domain/reporting"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fptr(v float64) *float64 { return &v }

func TestTotalHours(t *testing.T) {
	tests := []struct {
		name  string
		tasks []models.Task
		want  float64
	}{
		{"empty", nil, 0},
		{
			"actual hours only",
			[]models.Task{
				{Name: "design", ActualHours: fptr(2.5)},
				{Name: "review", ActualHours: fptr(1)},
			},
			3.5,
		},
		{
			"planned used when actual missing",
			[]models.Task{
				{Name: "design", PlannedHours: fptr(4)},
			},
			4,
		},
		{
			"actual wins over planned",
			[]models.Task{
				{Name: "design", ActualHours: fptr(3), PlannedHours: fptr(8)},
			},
			3,
		},
		{
			"task with no hours counts zero",
			[]models.Task{
				{Name: "standup"},
				{Name: "coding", ActualHours: fptr(6)},
			},
			6,
		},
		{
			"explicit zero actual blocks planned fallback",
			[]models.Task{
				{Name: "cancelled", ActualHours: fptr(0), PlannedHours: fptr(5)},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reporting.TotalHours(tt.tasks); got != tt.want {
				t.Errorf("TotalHours() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregateHours(t *testing.T) {
	alice := models.Profile{ID: primitive.NewObjectID(), Name: "Alice"}
	bob := models.Profile{ID: primitive.NewObjectID(), Name: "Bob"}
	carol := models.Profile{ID: primitive.NewObjectID(), Name: "Carol"}
	profiles := []models.Profile{alice, bob, carol}

	reports := []models.Report{
		{
			UserID:         alice.ID,
			ReportDate:     "2026-01-02",
			YesterdayTasks: []models.Task{{Name: "api", ActualHours: fptr(6)}},
			TodayTasks:     []models.Task{{Name: "api", PlannedHours: fptr(8)}},
		},
		{
			UserID:         alice.ID,
			ReportDate:     "2026-01-03",
			YesterdayTasks: []models.Task{{Name: "api", ActualHours: fptr(2)}},
		},
		{
			UserID:         bob.ID,
			ReportDate:     "2026-01-02",
			YesterdayTasks: []models.Task{{Name: "infra", PlannedHours: fptr(3)}},
		},
	}

	got := reporting.AggregateHours(profiles, reports)

	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].UserName != "Alice" || got[0].TotalHours != 8 {
		t.Errorf("Alice = %+v, want 8 hours", got[0])
	}
	if got[1].UserName != "Bob" || got[1].TotalHours != 3 {
		t.Errorf("Bob = %+v, want 3 hours", got[1])
	}
	if got[2].UserName != "Carol" || got[2].TotalHours != 0 {
		t.Errorf("Carol = %+v, want 0 hours", got[2])
	}

	// Today tasks never contribute to the aggregation.
	if got[0].TotalHours == 16 {
		t.Error("today tasks leaked into the roll-up")
	}
}

func TestComputeStatistics(t *testing.T) {
	empty := reporting.ComputeStatistics(nil)
	if empty.TotalReports != 0 || empty.AverageYesterdayHours != 0 {
		t.Errorf("empty stats = %+v, want zero value", empty)
	}

	reports := []models.Report{
		{
			YesterdayTasks: []models.Task{{Name: "a", ActualHours: fptr(4)}, {Name: "b", ActualHours: fptr(2)}},
			TodayTasks:     []models.Task{{Name: "c", PlannedHours: fptr(8)}},
		},
		{
			YesterdayTasks: []models.Task{{Name: "d", ActualHours: fptr(6)}},
			TodayTasks:     []models.Task{},
		},
	}

	st := reporting.ComputeStatistics(reports)
	if st.TotalReports != 2 {
		t.Errorf("TotalReports = %d, want 2", st.TotalReports)
	}
	if st.TotalYesterdayHours != 12 {
		t.Errorf("TotalYesterdayHours = %v, want 12", st.TotalYesterdayHours)
	}
	if st.TotalTodayHours != 8 {
		t.Errorf("TotalTodayHours = %v, want 8", st.TotalTodayHours)
	}
	if st.AverageYesterdayHours != 6 {
		t.Errorf("AverageYesterdayHours = %v, want 6", st.AverageYesterdayHours)
	}
	if st.AverageTodayHours != 4 {
		t.Errorf("AverageTodayHours = %v, want 4", st.AverageTodayHours)
	}
	if st.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d, want 4", st.TotalTasks)
	}
}

func TestBuildSummary(t *testing.T) {
	alice := models.Profile{ID: primitive.NewObjectID(), Name: "Alice", Email: "alice@example.com", Role: models.RoleAdmin}
	bob := models.Profile{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@example.com", Role: models.RoleMember}

	reports := []models.Report{
		{
			UserID:         alice.ID,
			ReportDate:     "2026-01-15",
			YesterdayTasks: []models.Task{{Name: "api", ActualHours: fptr(7)}},
			TodayTasks:     []models.Task{{Name: "api", PlannedHours: fptr(8)}},
			Notes:          "blocked on review",
		},
	}

	got := reporting.BuildSummary("2026-01-15", []models.Profile{alice, bob}, reports)

	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}

	a := got[0]
	if !a.HasSubmitted {
		t.Error("Alice should be marked submitted")
	}
	if a.YesterdayTotalHours != 7 || a.TodayTotalHours != 8 {
		t.Errorf("Alice hours = %v/%v, want 7/8", a.YesterdayTotalHours, a.TodayTotalHours)
	}
	if a.Notes != "blocked on review" {
		t.Errorf("Alice notes = %q", a.Notes)
	}
	if a.SubmittedAt == nil {
		t.Error("Alice SubmittedAt should be set")
	}

	b := got[1]
	if b.HasSubmitted {
		t.Error("Bob should be marked not submitted")
	}
	if b.YesterdayTasks == nil || b.TodayTasks == nil {
		t.Error("non-submitters should carry empty, not nil, task lists")
	}
	if b.SubmittedAt != nil {
		t.Error("Bob SubmittedAt should be nil")
	}
	if b.ReportDate != "2026-01-15" {
		t.Errorf("Bob ReportDate = %q", b.ReportDate)
	}
}
