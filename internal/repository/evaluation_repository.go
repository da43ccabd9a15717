package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// ErrDuplicateRecord signals that the (respondent, subject, period) triple is
// already present in the evaluation log.
var ErrDuplicateRecord = errors.New("repository: duplicate record")

// EvaluationRepository manages the append-only evaluation logs, one JSON
// array per evaluation kind.
type EvaluationRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewEvaluationRepository constructs an EvaluationRepository.
func NewEvaluationRepository(store kvstore.Store) *EvaluationRepository {
	return &EvaluationRepository{store: store}
}

func keyForKind(kind models.EvaluationKind) (string, error) {
	switch kind {
	case models.KindLecturer:
		return kvstore.KeyEvaluationsLecturer, nil
	case models.KindFacility:
		return kvstore.KeyEvaluationsFacility, nil
	default:
		return "", fmt.Errorf("unknown evaluation kind %q", kind)
	}
}

// ListByKind returns the full log for one evaluation kind, tagged with it.
func (r *EvaluationRepository) ListByKind(ctx context.Context, kind models.EvaluationKind) ([]models.Evaluation, error) {
	key, err := keyForKind(kind)
	if err != nil {
		return nil, err
	}
	evaluations, err := readCatalog[models.Evaluation](ctx, r.store, key)
	if err != nil {
		return nil, err
	}
	for i := range evaluations {
		evaluations[i].Kind = kind
	}
	return evaluations, nil
}

// ExistsFor reports whether the respondent already evaluated the subject in
// the period for the given kind.
func (r *EvaluationRepository) ExistsFor(ctx context.Context, kind models.EvaluationKind, respondentID, subjectID, periodID int64) (bool, error) {
	evaluations, err := r.ListByKind(ctx, kind)
	if err != nil {
		return false, err
	}
	for _, e := range evaluations {
		if e.RespondentID == respondentID && e.SubjectID == subjectID && e.PeriodID == periodID {
			return true, nil
		}
	}
	return false, nil
}

// CountBySubject returns the number of evaluations recorded for a subject.
func (r *EvaluationRepository) CountBySubject(ctx context.Context, kind models.EvaluationKind, subjectID int64) (int, error) {
	evaluations, err := r.ListByKind(ctx, kind)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range evaluations {
		if e.SubjectID == subjectID {
			count++
		}
	}
	return count, nil
}

// AppendIfAbsent persists a new evaluation unless the (respondent, subject,
// period) triple is already logged, in which case ErrDuplicateRecord is
// returned. The duplicate scan shares the lock with the write, so concurrent
// submissions of the same triple cannot both land. The candidate id is
// time-derived by the caller; when it collides with an existing record the
// id is bumped past the current maximum so ids stay unique within a kind.
func (r *EvaluationRepository) AppendIfAbsent(ctx context.Context, evaluation *models.Evaluation) error {
	key, err := keyForKind(evaluation.Kind)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	evaluations, err := readCatalog[models.Evaluation](ctx, r.store, key)
	if err != nil {
		return err
	}

	for _, e := range evaluations {
		if e.RespondentID == evaluation.RespondentID && e.SubjectID == evaluation.SubjectID && e.PeriodID == evaluation.PeriodID {
			return ErrDuplicateRecord
		}
	}

	var max int64
	for _, e := range evaluations {
		if e.ID > max {
			max = e.ID
		}
	}
	if evaluation.ID <= max {
		evaluation.ID = max + 1
	}

	evaluations = append(evaluations, *evaluation)
	return writeCatalog(ctx, r.store, key, evaluations)
}

// Clear wipes both evaluation logs. Exposed for test and admin tooling.
func (r *EvaluationRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Remove(ctx, kvstore.KeyEvaluationsLecturer, kvstore.KeyEvaluationsFacility)
}
