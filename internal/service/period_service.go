package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context) ([]models.Period, error)
	FindByID(ctx context.Context, id int64) (*models.Period, error)
	FindActive(ctx context.Context) (*models.Period, error)
	Create(ctx context.Context, period *models.Period) error
	Update(ctx context.Context, period *models.Period) error
	SetActive(ctx context.Context, id int64) (*models.Period, error)
	Delete(ctx context.Context, id int64) error
}

// PeriodRequest represents payload for creating or updating periods. Dates
// use the YYYY-MM-DD wire format.
type PeriodRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	AcademicYear string `json:"academic_year" validate:"required,max=20"`
	Semester     string `json:"semester" validate:"required,oneof=Ganjil Genap"`
	StartDate    string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Deadline     string `json:"evaluation_deadline" validate:"required,datetime=2006-01-02"`
	Notes        string `json:"notes" validate:"omitempty,max=500"`
}

// PeriodService manages evaluation periods and their activation state.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger}
}

// List returns all periods, newest first.
func (s *PeriodService) List(ctx context.Context) ([]models.Period, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list periods")
	}
	return periods, nil
}

// Get returns a period by id.
func (s *PeriodService) Get(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load period")
	}
	return period, nil
}

// GetActive returns the currently active period, or NotFound when no period
// is open for submissions.
func (s *PeriodService) GetActive(ctx context.Context) (*models.Period, error) {
	period, err := s.repo.FindActive(ctx)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active evaluation period")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load active period")
	}
	return period, nil
}

// Create registers a new period in the inactive state.
func (s *PeriodService) Create(ctx context.Context, req PeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	start, end, deadline, err := parsePeriodDates(req)
	if err != nil {
		return nil, err
	}

	period := &models.Period{
		Name:         strings.TrimSpace(req.Name),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Semester:     req.Semester,
		StartDate:    start,
		EndDate:      end,
		Deadline:     deadline,
		Status:       models.PeriodInactive,
		Notes:        strings.TrimSpace(req.Notes),
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create period")
	}

	s.logger.Info("period created", zap.Int64("id", period.ID), zap.String("name", period.Name))
	return period, nil
}

// Update modifies an existing period's descriptive fields and dates.
func (s *PeriodService) Update(ctx context.Context, id int64, req PeriodRequest) (*models.Period, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}

	start, end, deadline, err := parsePeriodDates(req)
	if err != nil {
		return nil, err
	}

	period, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	period.Name = strings.TrimSpace(req.Name)
	period.AcademicYear = strings.TrimSpace(req.AcademicYear)
	period.Semester = req.Semester
	period.StartDate = start
	period.EndDate = end
	period.Deadline = deadline
	period.Notes = strings.TrimSpace(req.Notes)

	if err := s.repo.Update(ctx, period); err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update period")
	}
	return period, nil
}

// Activate opens a period for submissions. Any other active period is
// deactivated in the same store write, so at most one period is ever active.
func (s *PeriodService) Activate(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if period.Status == models.PeriodCompleted {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "completed period cannot be reactivated")
	}

	activated, err := s.repo.SetActive(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to activate period")
	}

	s.logger.Info("period activated", zap.Int64("id", id))
	return activated, nil
}

// Deactivate closes an active period without completing it.
func (s *PeriodService) Deactivate(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if period.Status != models.PeriodActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only an active period can be deactivated")
	}

	period.Status = models.PeriodInactive
	if err := s.repo.Update(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to deactivate period")
	}

	s.logger.Info("period deactivated", zap.Int64("id", id))
	return period, nil
}

// Complete archives a period. Completed periods keep their evaluations but
// can no longer be activated.
func (s *PeriodService) Complete(ctx context.Context, id int64) (*models.Period, error) {
	period, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if period.Status == models.PeriodCompleted {
		return period, nil
	}

	period.Status = models.PeriodCompleted
	if err := s.repo.Update(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to complete period")
	}

	s.logger.Info("period completed", zap.Int64("id", id))
	return period, nil
}

// Delete removes a period. Active periods must be deactivated first.
func (s *PeriodService) Delete(ctx context.Context, id int64) error {
	period, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if period.Status == models.PeriodActive {
		return appErrors.Clone(appErrors.ErrForbidden, "active period cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrRecordNotFound {
			return appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete period")
	}
	return nil
}

func parsePeriodDates(req PeriodRequest) (start, end, deadline time.Time, err error) {
	start, _ = time.Parse("2006-01-02", req.StartDate)
	end, _ = time.Parse("2006-01-02", req.EndDate)
	deadline, _ = time.Parse("2006-01-02", req.Deadline)

	if !start.Before(end) {
		return start, end, deadline, appErrors.Clone(appErrors.ErrValidation, "start date must be before end date")
	}
	if deadline.Before(start) || deadline.After(end) {
		return start, end, deadline, appErrors.Clone(appErrors.ErrValidation, "evaluation deadline must fall within the period")
	}
	return start, end, deadline, nil
}
