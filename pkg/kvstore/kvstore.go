package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when a key has never been written.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the persistence contract the application is built on: an
// asynchronous, string-keyed, string-valued store with no query capability.
// All structured data is serialized to and from JSON text by the caller.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
}

// Catalog keys used by the application.
const (
	KeyLecturers           = "lecturers"
	KeyFacilities          = "facilities"
	KeyPeriods             = "periods"
	KeyEvaluationsLecturer = "evaluations_lecturer"
	KeyEvaluationsFacility = "evaluations_facility"
	KeyUsers               = "users"
	KeyReportJobs          = "report_jobs"
)
