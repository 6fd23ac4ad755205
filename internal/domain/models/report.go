// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is one entry in a report's task list. Tasks have no identity of
// their own; editing a task is a full rewrite of the parent report's list.
//
// Yesterday tasks carry ActualHours and Completed; today tasks carry
// PlannedHours. Hours pointers are nil when the value was not entered.
type Task struct {
	Name         string   `bson:"task_name" json:"task_name"`
	ActualHours  *float64 `bson:"actual_hours,omitempty" json:"actual_hours,omitempty"`
	PlannedHours *float64 `bson:"planned_hours,omitempty" json:"planned_hours,omitempty"`
	Completed    bool     `bson:"completed,omitempty" json:"completed,omitempty"`
}

// Report is one day's submission for one profile: yesterday's actuals,
// today's plan, and free-text notes.
//
// Exactly one document per (user_id, report_date). Resubmitting for the same
// date replaces both task lists and the notes wholesale; no history is kept.
//
// Convention: a report recorded under ReportDate describes the *previous*
// day's actuals in YesterdayTasks. Period aggregations therefore query a
// window shifted forward by one day (see workdate.ShiftReportWindow).
type Report struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	ReportDate     string             `bson:"report_date" json:"report_date"` // YYYY-MM-DD
	YesterdayTasks []Task             `bson:"yesterday_tasks" json:"yesterday_tasks"`
	TodayTasks     []Task             `bson:"today_tasks" json:"today_tasks"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SubmittedAt    time.Time          `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
