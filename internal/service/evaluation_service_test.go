package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	"github.com/adityawrmn/campus-eval-api/internal/seed"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

type evaluationRepoStub struct {
	byKind   map[models.EvaluationKind][]models.Evaluation
	appended []models.Evaluation
}

func (s *evaluationRepoStub) ListByKind(ctx context.Context, kind models.EvaluationKind) ([]models.Evaluation, error) {
	return s.byKind[kind], nil
}

func (s *evaluationRepoStub) ExistsFor(ctx context.Context, kind models.EvaluationKind, respondentID, subjectID, periodID int64) (bool, error) {
	for _, e := range s.byKind[kind] {
		if e.RespondentID == respondentID && e.SubjectID == subjectID && e.PeriodID == periodID {
			return true, nil
		}
	}
	return false, nil
}

func (s *evaluationRepoStub) AppendIfAbsent(ctx context.Context, evaluation *models.Evaluation) error {
	for _, e := range s.byKind[evaluation.Kind] {
		if e.RespondentID == evaluation.RespondentID && e.SubjectID == evaluation.SubjectID && e.PeriodID == evaluation.PeriodID {
			return repository.ErrDuplicateRecord
		}
	}
	s.appended = append(s.appended, *evaluation)
	if s.byKind == nil {
		s.byKind = make(map[models.EvaluationKind][]models.Evaluation)
	}
	s.byKind[evaluation.Kind] = append(s.byKind[evaluation.Kind], *evaluation)
	return nil
}

type lecturerFinderStub struct {
	lecturer *models.Lecturer
}

func (s lecturerFinderStub) FindByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	if s.lecturer == nil || s.lecturer.ID != id {
		return nil, repository.ErrRecordNotFound
	}
	return s.lecturer, nil
}

type facilityFinderStub struct {
	facility *models.Facility
}

func (s facilityFinderStub) FindByID(ctx context.Context, id int64) (*models.Facility, error) {
	if s.facility == nil || s.facility.ID != id {
		return nil, repository.ErrRecordNotFound
	}
	return s.facility, nil
}

type activePeriodStub struct {
	period *models.Period
}

func (s activePeriodStub) FindActive(ctx context.Context) (*models.Period, error) {
	if s.period == nil {
		return nil, repository.ErrRecordNotFound
	}
	return s.period, nil
}

func fullAnswers(kind models.EvaluationKind, rating int) []AnswerRequest {
	answers := make([]AnswerRequest, 0)
	for _, category := range seed.QuestionCategories(kind) {
		for _, q := range category.Questions {
			answers = append(answers, AnswerRequest{QuestionID: q.ID, Rating: rating})
		}
	}
	return answers
}

func newEvaluationFixture(repo *evaluationRepoStub) *EvaluationService {
	lecturer := &models.Lecturer{ID: 1, NIP: "197805152005011001", FullName: "Dr. Ahmad Fauzi, M.Kom", Courses: []string{"Pemrograman Web"}, Status: models.StatusActive}
	facility := &models.Facility{ID: 5, Code: "PERPUS-01", Name: "Perpustakaan Pusat", Category: "Perpustakaan", Status: models.StatusActive}
	period := &models.Period{
		ID:        3,
		Status:    models.PeriodActive,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Deadline:  time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	svc := NewEvaluationService(repo, lecturerFinderStub{lecturer: lecturer}, facilityFinderStub{facility: facility}, activePeriodStub{period: period}, nil, nil, 0)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestEvaluationServiceSubmit(t *testing.T) {
	repo := &evaluationRepoStub{}
	svc := newEvaluationFixture(repo)

	evaluation, err := svc.Submit(context.Background(), models.KindLecturer, 100, SubmitEvaluationRequest{
		SubjectID: 1,
		Answers:   fullAnswers(models.KindLecturer, 4),
		Comment:   "  mantap  ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), evaluation.PeriodID)
	assert.Equal(t, models.EvaluationSubmitted, evaluation.Status)
	assert.Equal(t, "Dr. Ahmad Fauzi, M.Kom", evaluation.SubjectName)
	assert.Equal(t, "197805152005011001", evaluation.SubjectCode)
	assert.Equal(t, "mantap", evaluation.Comment)
	assert.Equal(t, svc.now().UTC().UnixMilli(), evaluation.ID)
	require.Len(t, repo.appended, 1)
}

func TestEvaluationServiceDuplicateRejected(t *testing.T) {
	repo := &evaluationRepoStub{}
	svc := newEvaluationFixture(repo)
	req := SubmitEvaluationRequest{SubjectID: 1, Answers: fullAnswers(models.KindLecturer, 5)}

	_, err := svc.Submit(context.Background(), models.KindLecturer, 100, req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), models.KindLecturer, 100, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateSubmission.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.appended, 1, "duplicate must not append a second record")
}

func TestEvaluationServiceConcurrentDuplicateSubmit(t *testing.T) {
	repo := repository.NewEvaluationRepository(kvstore.NewMemory())
	lecturer := &models.Lecturer{ID: 1, NIP: "197805152005011001", FullName: "Dr. Ahmad Fauzi, M.Kom", Status: models.StatusActive}
	period := &models.Period{
		ID:       3,
		Status:   models.PeriodActive,
		Deadline: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	svc := NewEvaluationService(repo, lecturerFinderStub{lecturer: lecturer}, facilityFinderStub{}, activePeriodStub{period: period}, nil, nil, 50*time.Millisecond)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	req := SubmitEvaluationRequest{SubjectID: 1, Answers: fullAnswers(models.KindLecturer, 4)}
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(context.Background(), models.KindLecturer, 100, req)
		}(i)
	}
	wg.Wait()

	succeeded, duplicates := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if appErrors.FromError(err).Code == appErrors.ErrDuplicateSubmission.Code {
			duplicates++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, duplicates)

	history, err := repo.ListByKind(context.Background(), models.KindLecturer)
	require.NoError(t, err)
	assert.Len(t, history, 1, "concurrent duplicates must not both land")
}

func TestEvaluationServiceAnswerValidation(t *testing.T) {
	svc := newEvaluationFixture(&evaluationRepoStub{})

	_, err := svc.Submit(context.Background(), models.KindLecturer, 100, SubmitEvaluationRequest{
		SubjectID: 1,
		Answers:   []AnswerRequest{{QuestionID: 1, Rating: 5}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	bad := fullAnswers(models.KindLecturer, 4)
	bad[0].QuestionID = 999
	_, err = svc.Submit(context.Background(), models.KindLecturer, 100, SubmitEvaluationRequest{SubjectID: 1, Answers: bad})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEvaluationServiceDeadlinePassed(t *testing.T) {
	repo := &evaluationRepoStub{}
	svc := newEvaluationFixture(repo)
	svc.now = func() time.Time { return time.Date(2024, 6, 16, 8, 0, 0, 0, time.UTC) }

	_, err := svc.Submit(context.Background(), models.KindLecturer, 100, SubmitEvaluationRequest{
		SubjectID: 1,
		Answers:   fullAnswers(models.KindLecturer, 4),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.appended)
}

func TestEvaluationServiceNoActivePeriod(t *testing.T) {
	svc := NewEvaluationService(&evaluationRepoStub{}, lecturerFinderStub{}, facilityFinderStub{}, activePeriodStub{}, nil, nil, 0)

	_, err := svc.Submit(context.Background(), models.KindLecturer, 100, SubmitEvaluationRequest{
		SubjectID: 1,
		Answers:   fullAnswers(models.KindLecturer, 4),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestEvaluationServiceInactiveSubjectRejected(t *testing.T) {
	repo := &evaluationRepoStub{}
	svc := newEvaluationFixture(repo)
	svc.lecturers = lecturerFinderStub{lecturer: &models.Lecturer{ID: 1, Status: models.StatusInactive}}

	_, err := svc.Submit(context.Background(), models.KindLecturer, 100, SubmitEvaluationRequest{
		SubjectID: 1,
		Answers:   fullAnswers(models.KindLecturer, 4),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestEvaluationServiceHistoryMergedNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &evaluationRepoStub{byKind: map[models.EvaluationKind][]models.Evaluation{
		models.KindLecturer: {
			{ID: 1, Kind: models.KindLecturer, RespondentID: 100, SubmittedAt: base},
			{ID: 2, Kind: models.KindLecturer, RespondentID: 200, SubmittedAt: base.Add(time.Hour)},
		},
		models.KindFacility: {
			{ID: 3, Kind: models.KindFacility, RespondentID: 100, SubmittedAt: base.Add(2 * time.Hour)},
		},
	}}
	svc := newEvaluationFixture(repo)

	history, err := svc.HistoryFor(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(3), history[0].ID)
	assert.Equal(t, int64(1), history[1].ID)
}

func TestEvaluationServiceHasSubmitted(t *testing.T) {
	repo := &evaluationRepoStub{}
	svc := newEvaluationFixture(repo)

	submitted, err := svc.HasSubmitted(context.Background(), models.KindFacility, 100, 5)
	require.NoError(t, err)
	assert.False(t, submitted)

	_, err = svc.Submit(context.Background(), models.KindFacility, 100, SubmitEvaluationRequest{
		SubjectID: 5,
		Answers:   fullAnswers(models.KindFacility, 3),
	})
	require.NoError(t, err)

	submitted, err = svc.HasSubmitted(context.Background(), models.KindFacility, 100, 5)
	require.NoError(t, err)
	assert.True(t, submitted)
}
