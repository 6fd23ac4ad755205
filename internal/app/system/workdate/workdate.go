// Package workdate holds the application's calendar conventions.
//
// All report dates are plain YYYY-MM-DD strings in Japan Standard Time; a
// report filed on date D records the previous day's actuals. Every periodic
// aggregation must therefore shift its query window forward by one day —
// ShiftReportWindow is the single home of that rule.
package workdate

import (
	"fmt"
	"time"
)

// Layout is the wire format for report dates.
const Layout = "2006-01-02"

var jst = time.FixedZone("Asia/Tokyo", 9*60*60)

// nowFn is swapped in tests.
var nowFn = time.Now

// Today returns the current date in JST as YYYY-MM-DD.
func Today() string {
	return nowFn().In(jst).Format(Layout)
}

// Now returns the current JST time.
func Now() time.Time {
	return nowFn().In(jst)
}

// Parse converts a YYYY-MM-DD string to a time anchored in JST.
func Parse(date string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, date, jst)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// IsValid reports whether date is a well-formed YYYY-MM-DD string.
func IsValid(date string) bool {
	_, err := Parse(date)
	return err == nil
}

// NextDay returns the calendar day after date.
func NextDay(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(Layout), nil
}

// PrevDay returns the calendar day before date.
func PrevDay(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(Layout), nil
}

// ShiftReportWindow converts a calendar window [start, end] into the report
// window [start+1, end+1] that actually contains those days' actuals.
//
// A report dated D carries D-1's worked hours, so January's totals live in
// reports dated 01-02 through 02-01. This shift is a fixed business rule;
// callers must never widen or skip it.
func ShiftReportWindow(start, end string) (qStart, qEnd string, err error) {
	if qStart, err = NextDay(start); err != nil {
		return "", "", err
	}
	if qEnd, err = NextDay(end); err != nil {
		return "", "", err
	}
	return qStart, qEnd, nil
}

// MonthRange returns the first and last calendar day of the month containing
// date.
func MonthRange(date string) (start, end string, err error) {
	t, err := Parse(date)
	if err != nil {
		return "", "", err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, jst)
	last := first.AddDate(0, 1, -1)
	return first.Format(Layout), last.Format(Layout), nil
}

// MonthOf returns the range for a YYYY-MM month string.
func MonthOf(month string) (start, end string, err error) {
	t, err := time.ParseInLocation("2006-01", month, jst)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	last := t.AddDate(0, 1, -1)
	return t.Format(Layout), last.Format(Layout), nil
}

// PeriodRange returns [today-days, today] for trailing-window statistics.
func PeriodRange(days int) (start, end string) {
	now := Now()
	return now.AddDate(0, 0, -days).Format(Layout), now.Format(Layout)
}
