package models

import "time"

// EvaluationKind identifies what an evaluation rates.
type EvaluationKind string

const (
	KindLecturer EvaluationKind = "lecturer"
	KindFacility EvaluationKind = "facility"
)

// EvaluationSubmitted is the only status evaluations carry today; the log is
// append-only and records are never mutated after submission.
const EvaluationSubmitted = "submitted"

// Answer is one Likert rating (1-5) for a single evaluation question.
type Answer struct {
	QuestionID int64 `json:"question_id"`
	Rating     int   `json:"rating"`
}

// Evaluation is one submitted rating of a subject by a respondent within a
// period. Subject descriptive fields are snapshots copied at submission time
// so history stays readable even if the catalog entry changes later.
type Evaluation struct {
	ID              int64          `json:"id"`
	Kind            EvaluationKind `json:"kind"`
	RespondentID    int64          `json:"respondent_id"`
	SubjectID       int64          `json:"subject_id"`
	SubjectName     string         `json:"subject_name"`
	SubjectCode     string         `json:"subject_code"`
	SubjectCategory string         `json:"subject_category,omitempty"`
	PeriodID        int64          `json:"period_id"`
	Answers         []Answer       `json:"answers"`
	Comment         string         `json:"comment,omitempty"`
	Status          string         `json:"status"`
	SubmittedAt     time.Time      `json:"submitted_at"`
}
