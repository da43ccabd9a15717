package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	"github.com/adityawrmn/campus-eval-api/internal/seed"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
)

type evaluationRepository interface {
	ListByKind(ctx context.Context, kind models.EvaluationKind) ([]models.Evaluation, error)
	ExistsFor(ctx context.Context, kind models.EvaluationKind, respondentID, subjectID, periodID int64) (bool, error)
	AppendIfAbsent(ctx context.Context, evaluation *models.Evaluation) error
}

type lecturerFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Lecturer, error)
}

type facilityFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Facility, error)
}

type activePeriodFinder interface {
	FindActive(ctx context.Context) (*models.Period, error)
}

type submissionRecorder interface {
	RecordSubmission(kind string)
}

// AnswerRequest is one Likert answer on the submission form.
type AnswerRequest struct {
	QuestionID int64 `json:"question_id" validate:"required"`
	Rating     int   `json:"rating" validate:"required,min=1,max=5"`
}

// SubmitEvaluationRequest represents a full evaluation submission.
type SubmitEvaluationRequest struct {
	SubjectID int64           `json:"subject_id" validate:"required"`
	Answers   []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
	Comment   string          `json:"comment" validate:"omitempty,max=1000"`
}

// EvaluationService records submissions and serves respondent history.
type EvaluationService struct {
	repo        evaluationRepository
	lecturers   lecturerFinder
	facilities  facilityFinder
	periods     activePeriodFinder
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     submissionRecorder
	submitDelay time.Duration
	now         func() time.Time
}

// NewEvaluationService constructs an EvaluationService. submitDelay
// throttles submissions the way the legacy client simulated network latency;
// zero disables it.
func NewEvaluationService(
	repo evaluationRepository,
	lecturers lecturerFinder,
	facilities facilityFinder,
	periods activePeriodFinder,
	validate *validator.Validate,
	logger *zap.Logger,
	submitDelay time.Duration,
) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		repo:        repo,
		lecturers:   lecturers,
		facilities:  facilities,
		periods:     periods,
		validator:   validate,
		logger:      logger,
		submitDelay: submitDelay,
		now:         time.Now,
	}
}

// AttachMetrics enables submission counters. Safe to skip in tests.
func (s *EvaluationService) AttachMetrics(metrics submissionRecorder) {
	s.metrics = metrics
}

// Submit records one evaluation for the active period. A respondent may
// evaluate each subject at most once per period.
func (s *EvaluationService) Submit(ctx context.Context, kind models.EvaluationKind, respondentID int64, req SubmitEvaluationRequest) (*models.Evaluation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation payload")
	}
	if err := s.validateAnswers(kind, req.Answers); err != nil {
		return nil, err
	}

	period, err := s.periods.FindActive(ctx)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no evaluation period is currently open")
	}
	if now := s.now().UTC(); now.After(endOfDay(period.Deadline)) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "evaluation deadline has passed")
	}

	evaluation := &models.Evaluation{
		Kind:         kind,
		RespondentID: respondentID,
		SubjectID:    req.SubjectID,
		PeriodID:     period.ID,
		Comment:      strings.TrimSpace(req.Comment),
		Status:       models.EvaluationSubmitted,
	}
	if err := s.snapshotSubject(ctx, evaluation); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsFor(ctx, kind, respondentID, req.SubjectID, period.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check prior submissions")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "")
	}

	if err := s.wait(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "submission cancelled")
	}

	submittedAt := s.now().UTC()
	evaluation.ID = submittedAt.UnixMilli()
	evaluation.SubmittedAt = submittedAt
	evaluation.Answers = make([]models.Answer, len(req.Answers))
	for i, a := range req.Answers {
		evaluation.Answers[i] = models.Answer{QuestionID: a.QuestionID, Rating: a.Rating}
	}

	if err := s.repo.AppendIfAbsent(ctx, evaluation); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to record evaluation")
	}

	if s.metrics != nil {
		s.metrics.RecordSubmission(string(kind))
	}
	s.logger.Info("evaluation submitted",
		zap.String("kind", string(kind)),
		zap.Int64("respondent_id", respondentID),
		zap.Int64("subject_id", req.SubjectID),
		zap.Int64("period_id", period.ID),
	)
	return evaluation, nil
}

// HistoryFor merges both evaluation kinds for a respondent, newest first.
func (s *EvaluationService) HistoryFor(ctx context.Context, respondentID int64) ([]models.Evaluation, error) {
	history := make([]models.Evaluation, 0)
	for _, kind := range []models.EvaluationKind{models.KindLecturer, models.KindFacility} {
		evaluations, err := s.repo.ListByKind(ctx, kind)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load evaluation history")
		}
		for _, e := range evaluations {
			if e.RespondentID == respondentID {
				history = append(history, e)
			}
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].SubmittedAt.After(history[j].SubmittedAt)
	})
	return history, nil
}

// HasSubmitted reports whether the respondent already evaluated the subject
// in the active period. Used by clients as a pre-flight check.
func (s *EvaluationService) HasSubmitted(ctx context.Context, kind models.EvaluationKind, respondentID, subjectID int64) (bool, error) {
	period, err := s.periods.FindActive(ctx)
	if err != nil {
		return false, nil
	}
	exists, err := s.repo.ExistsFor(ctx, kind, respondentID, subjectID, period.ID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check prior submissions")
	}
	return exists, nil
}

func (s *EvaluationService) validateAnswers(kind models.EvaluationKind, answers []AnswerRequest) error {
	known := seed.KnownQuestionIDs(kind)
	if len(known) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "unknown evaluation kind")
	}
	if len(answers) != len(known) {
		return appErrors.Clone(appErrors.ErrValidation, "all questions must be answered")
	}
	seen := make(map[int64]struct{}, len(answers))
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, "answer references an unknown question")
		}
		if _, dup := seen[a.QuestionID]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate answer for a question")
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}

// snapshotSubject copies the subject's display fields onto the evaluation so
// history stays readable even after the subject is edited.
func (s *EvaluationService) snapshotSubject(ctx context.Context, evaluation *models.Evaluation) error {
	switch evaluation.Kind {
	case models.KindLecturer:
		lecturer, err := s.lecturers.FindByID(ctx, evaluation.SubjectID)
		if err != nil {
			return appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		if lecturer.Status != models.StatusActive {
			return appErrors.Clone(appErrors.ErrForbidden, "lecturer is not open for evaluation")
		}
		evaluation.SubjectName = lecturer.FullName
		evaluation.SubjectCode = lecturer.NIP
		evaluation.SubjectCategory = strings.Join(lecturer.Courses, ", ")
	case models.KindFacility:
		facility, err := s.facilities.FindByID(ctx, evaluation.SubjectID)
		if err != nil {
			return appErrors.Clone(appErrors.ErrNotFound, "facility not found")
		}
		if facility.Status != models.StatusActive {
			return appErrors.Clone(appErrors.ErrForbidden, "facility is not open for evaluation")
		}
		evaluation.SubjectName = facility.Name
		evaluation.SubjectCode = facility.Code
		evaluation.SubjectCategory = facility.Category
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown evaluation kind")
	}
	return nil
}

func (s *EvaluationService) wait(ctx context.Context) error {
	if s.submitDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.submitDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
