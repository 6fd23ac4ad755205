package workdate

import (
	"testing"
	"time"
)

func TestNextDay(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-01-01", "2026-01-02"},
		{"2026-01-31", "2026-02-01"},
		{"2026-12-31", "2027-01-01"},
		{"2024-02-28", "2024-02-29"}, // leap year
		{"2025-02-28", "2025-03-01"}, // non-leap year
		{"2024-02-29", "2024-03-01"},
	}
	for _, tt := range tests {
		got, err := NextDay(tt.date)
		if err != nil {
			t.Fatalf("NextDay(%q): %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("NextDay(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestNextDay_Invalid(t *testing.T) {
	for _, date := range []string{"", "2026-1-1", "2026/01/01", "not-a-date"} {
		if _, err := NextDay(date); err == nil {
			t.Errorf("NextDay(%q): expected error", date)
		}
	}
}

func TestPrevDay(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-01-01", "2025-12-31"},
		{"2024-03-01", "2024-02-29"},
		{"2025-03-01", "2025-02-28"},
	}
	for _, tt := range tests {
		got, err := PrevDay(tt.date)
		if err != nil {
			t.Fatalf("PrevDay(%q): %v", tt.date, err)
		}
		if got != tt.want {
			t.Errorf("PrevDay(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

// Pins the one-day shift for several month boundaries. A report dated D
// carries D-1's hours, so the query window trails the calendar window by
// exactly one day on both ends.
func TestShiftReportWindow(t *testing.T) {
	tests := []struct {
		start, end   string
		qStart, qEnd string
	}{
		{"2026-01-01", "2026-01-31", "2026-01-02", "2026-02-01"},
		{"2026-02-01", "2026-02-28", "2026-02-02", "2026-03-01"},
		{"2024-02-01", "2024-02-29", "2024-02-02", "2024-03-01"}, // leap February
		{"2026-04-01", "2026-04-30", "2026-04-02", "2026-05-01"},
		{"2026-12-01", "2026-12-31", "2026-12-02", "2027-01-01"}, // year boundary
	}
	for _, tt := range tests {
		qStart, qEnd, err := ShiftReportWindow(tt.start, tt.end)
		if err != nil {
			t.Fatalf("ShiftReportWindow(%q, %q): %v", tt.start, tt.end, err)
		}
		if qStart != tt.qStart || qEnd != tt.qEnd {
			t.Errorf("ShiftReportWindow(%q, %q) = (%q, %q), want (%q, %q)",
				tt.start, tt.end, qStart, qEnd, tt.qStart, tt.qEnd)
		}
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		date       string
		start, end string
	}{
		{"2026-01-15", "2026-01-01", "2026-01-31"},
		{"2024-02-10", "2024-02-01", "2024-02-29"},
		{"2025-02-10", "2025-02-01", "2025-02-28"},
		{"2026-12-31", "2026-12-01", "2026-12-31"},
	}
	for _, tt := range tests {
		start, end, err := MonthRange(tt.date)
		if err != nil {
			t.Fatalf("MonthRange(%q): %v", tt.date, err)
		}
		if start != tt.start || end != tt.end {
			t.Errorf("MonthRange(%q) = (%q, %q), want (%q, %q)",
				tt.date, start, end, tt.start, tt.end)
		}
	}
}

func TestMonthOf(t *testing.T) {
	start, end, err := MonthOf("2026-06")
	if err != nil {
		t.Fatal(err)
	}
	if start != "2026-06-01" || end != "2026-06-30" {
		t.Errorf("MonthOf(2026-06) = (%q, %q)", start, end)
	}
	if _, _, err := MonthOf("2026-6"); err == nil {
		t.Error("MonthOf(2026-6): expected error")
	}
}

func TestToday_JST(t *testing.T) {
	// 2026-03-01 23:30 UTC is already 2026-03-02 in JST.
	defer func() { nowFn = time.Now }()
	nowFn = func() time.Time {
		return time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	}
	if got := Today(); got != "2026-03-02" {
		t.Errorf("Today() = %q, want 2026-03-02", got)
	}
}
