package models

import "time"

// SubjectStats is the derived rating summary for one rated subject. It is
// computed on demand and never persisted.
type SubjectStats struct {
	Kind            EvaluationKind `json:"kind"`
	SubjectID       int64          `json:"subject_id"`
	SubjectName     string         `json:"subject_name"`
	SubjectCode     string         `json:"subject_code"`
	SubjectCategory string         `json:"subject_category,omitempty"`
	RatingSum       int            `json:"-"`
	AnswerCount     int            `json:"answer_count"`
	Average         float64        `json:"average"`
	EvaluationCount int            `json:"evaluation_count"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalEvaluations    int            `json:"total_evaluations"`
	TodayEvaluations    int            `json:"today_evaluations"`
	WeekEvaluations     int            `json:"week_evaluations"`
	MonthEvaluations    int            `json:"month_evaluations"`
	LecturerEvaluations int            `json:"lecturer_evaluations"`
	FacilityEvaluations int            `json:"facility_evaluations"`
	TotalStudents       int            `json:"total_students"`
	UniqueRespondents   int            `json:"unique_respondents"`
	ParticipationRate   float64        `json:"participation_rate"`
	TopLecturers        []SubjectStats `json:"top_lecturers"`
	FacilitiesAttention []SubjectStats `json:"facilities_needing_attention"`
}

// MonthlyTrendPoint counts submissions per calendar month.
type MonthlyTrendPoint struct {
	Month    string `json:"month"`
	Lecturer int    `json:"lecturer"`
	Facility int    `json:"facility"`
	Total    int    `json:"total"`
}

// Report job lifecycle states.
const (
	ReportPending   = "pending"
	ReportRunning   = "running"
	ReportCompleted = "completed"
	ReportFailed    = "failed"
)

// ReportJob tracks an asynchronous statistics export.
type ReportJob struct {
	ID          string     `json:"id"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	FileName    string     `json:"file_name,omitempty"`
	Error       string     `json:"error,omitempty"`
	RequestedBy int64      `json:"requested_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
