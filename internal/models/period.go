package models

import "time"

// PeriodStatus tracks the evaluation window state machine.
type PeriodStatus string

const (
	PeriodInactive  PeriodStatus = "inactive"
	PeriodActive    PeriodStatus = "active"
	PeriodCompleted PeriodStatus = "completed"
)

// Period is an academic term window during which evaluations may be submitted.
// At most one period is active at a time.
type Period struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	AcademicYear string       `json:"academic_year"`
	Semester     string       `json:"semester"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	Deadline     time.Time    `json:"evaluation_deadline"`
	Status       PeriodStatus `json:"status"`
	Notes        string       `json:"notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
