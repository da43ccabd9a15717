package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

func TestEvaluationRepositoryAppendKeepsLogsSeparate(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 100, Kind: models.KindLecturer, RespondentID: 1, SubjectID: 5, PeriodID: 3}))
	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 200, Kind: models.KindFacility, RespondentID: 1, SubjectID: 2, PeriodID: 3}))

	lecturers, err := repo.ListByKind(ctx, models.KindLecturer)
	require.NoError(t, err)
	require.Len(t, lecturers, 1)
	assert.Equal(t, models.KindLecturer, lecturers[0].Kind)

	facilities, err := repo.ListByKind(ctx, models.KindFacility)
	require.NoError(t, err)
	require.Len(t, facilities, 1)
	assert.Equal(t, int64(2), facilities[0].SubjectID)
}

func TestEvaluationRepositoryAppendIfAbsentRejectsDuplicate(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 1, Kind: models.KindLecturer, RespondentID: 9, SubjectID: 5, PeriodID: 3}))

	err := repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 2, Kind: models.KindLecturer, RespondentID: 9, SubjectID: 5, PeriodID: 3})
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	evaluations, err := repo.ListByKind(ctx, models.KindLecturer)
	require.NoError(t, err)
	assert.Len(t, evaluations, 1)
}

func TestEvaluationRepositoryAppendIfAbsentConcurrent(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.AppendIfAbsent(ctx, &models.Evaluation{ID: int64(100 + i), Kind: models.KindLecturer, RespondentID: 9, SubjectID: 5, PeriodID: 3})
		}(i)
	}
	wg.Wait()

	duplicates := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrDuplicateRecord)
			duplicates++
		}
	}
	assert.Equal(t, 1, duplicates)

	evaluations, err := repo.ListByKind(ctx, models.KindLecturer)
	require.NoError(t, err)
	assert.Len(t, evaluations, 1)
}

func TestEvaluationRepositoryAppendBumpsCollidingID(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	first := &models.Evaluation{ID: 100, Kind: models.KindLecturer, RespondentID: 1, SubjectID: 5, PeriodID: 3}
	second := &models.Evaluation{ID: 100, Kind: models.KindLecturer, RespondentID: 2, SubjectID: 5, PeriodID: 3}
	require.NoError(t, repo.AppendIfAbsent(ctx, first))
	require.NoError(t, repo.AppendIfAbsent(ctx, second))

	assert.Equal(t, int64(101), second.ID)
}

func TestEvaluationRepositoryExistsFor(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 1, Kind: models.KindLecturer, RespondentID: 9, SubjectID: 5, PeriodID: 3}))

	exists, err := repo.ExistsFor(ctx, models.KindLecturer, 9, 5, 3)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same respondent and subject in a different period is a fresh submission.
	exists, err = repo.ExistsFor(ctx, models.KindLecturer, 9, 5, 4)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEvaluationRepositoryCountBySubject(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 1, Kind: models.KindFacility, RespondentID: 1, SubjectID: 2, PeriodID: 3}))
	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 2, Kind: models.KindFacility, RespondentID: 4, SubjectID: 2, PeriodID: 3}))

	count, err := repo.CountBySubject(ctx, models.KindFacility, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.CountBySubject(ctx, models.KindFacility, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestEvaluationRepositoryClear(t *testing.T) {
	repo := NewEvaluationRepository(kvstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.AppendIfAbsent(ctx, &models.Evaluation{ID: 1, Kind: models.KindLecturer, RespondentID: 1, SubjectID: 5, PeriodID: 3}))
	require.NoError(t, repo.Clear(ctx))

	evaluations, err := repo.ListByKind(ctx, models.KindLecturer)
	require.NoError(t, err)
	assert.Empty(t, evaluations)
}
