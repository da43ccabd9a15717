package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
)

type periodRepoStub struct {
	periods   []models.Period
	created   *models.Period
	updated   *models.Period
	deletedID int64
}

func (s *periodRepoStub) List(ctx context.Context) ([]models.Period, error) {
	return s.periods, nil
}

func (s *periodRepoStub) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	for i := range s.periods {
		if s.periods[i].ID == id {
			copied := s.periods[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (s *periodRepoStub) FindActive(ctx context.Context) (*models.Period, error) {
	for i := range s.periods {
		if s.periods[i].Status == models.PeriodActive {
			copied := s.periods[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (s *periodRepoStub) Create(ctx context.Context, period *models.Period) error {
	period.ID = int64(len(s.periods) + 1)
	s.created = period
	s.periods = append(s.periods, *period)
	return nil
}

func (s *periodRepoStub) Update(ctx context.Context, period *models.Period) error {
	s.updated = period
	for i := range s.periods {
		if s.periods[i].ID == period.ID {
			s.periods[i] = *period
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (s *periodRepoStub) SetActive(ctx context.Context, id int64) (*models.Period, error) {
	var target *models.Period
	for i := range s.periods {
		if s.periods[i].ID == id {
			s.periods[i].Status = models.PeriodActive
			copied := s.periods[i]
			target = &copied
		} else if s.periods[i].Status == models.PeriodActive {
			s.periods[i].Status = models.PeriodInactive
		}
	}
	if target == nil {
		return nil, repository.ErrRecordNotFound
	}
	return target, nil
}

func (s *periodRepoStub) Delete(ctx context.Context, id int64) error {
	s.deletedID = id
	for i := range s.periods {
		if s.periods[i].ID == id {
			s.periods = append(s.periods[:i], s.periods[i+1:]...)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func validPeriodRequest() PeriodRequest {
	return PeriodRequest{
		Name:         "Semester Ganjil 2024/2025",
		AcademicYear: "2024/2025",
		Semester:     "Ganjil",
		StartDate:    "2024-09-01",
		EndDate:      "2025-01-31",
		Deadline:     "2024-12-30",
	}
}

func TestPeriodServiceCreate(t *testing.T) {
	repo := &periodRepoStub{}
	svc := NewPeriodService(repo, nil, nil)

	period, err := svc.Create(context.Background(), validPeriodRequest())
	require.NoError(t, err)
	assert.Equal(t, models.PeriodInactive, period.Status)
	assert.True(t, period.StartDate.Before(period.EndDate))
}

func TestPeriodServiceDateValidation(t *testing.T) {
	svc := NewPeriodService(&periodRepoStub{}, nil, nil)

	reversed := validPeriodRequest()
	reversed.StartDate = "2024-06-01"
	reversed.EndDate = "2024-01-01"
	reversed.Deadline = "2024-03-01"
	_, err := svc.Create(context.Background(), reversed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	outside := validPeriodRequest()
	outside.StartDate = "2024-01-01"
	outside.EndDate = "2024-06-01"
	outside.Deadline = "2024-07-01"
	_, err = svc.Create(context.Background(), outside)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPeriodServiceActivateEnforcesSingleActive(t *testing.T) {
	repo := &periodRepoStub{periods: []models.Period{
		{ID: 1, Status: models.PeriodActive},
		{ID: 2, Status: models.PeriodInactive},
	}}
	svc := NewPeriodService(repo, nil, nil)

	activated, err := svc.Activate(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodActive, activated.Status)

	activeCount := 0
	for _, p := range repo.periods {
		if p.Status == models.PeriodActive {
			activeCount++
			assert.Equal(t, int64(2), p.ID)
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestPeriodServiceActivateCompletedForbidden(t *testing.T) {
	repo := &periodRepoStub{periods: []models.Period{{ID: 1, Status: models.PeriodCompleted}}}
	svc := NewPeriodService(repo, nil, nil)

	_, err := svc.Activate(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestPeriodServiceDeactivate(t *testing.T) {
	repo := &periodRepoStub{periods: []models.Period{{ID: 1, Status: models.PeriodActive}}}
	svc := NewPeriodService(repo, nil, nil)

	period, err := svc.Deactivate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodInactive, period.Status)

	_, err = svc.Deactivate(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestPeriodServiceDeleteActiveForbidden(t *testing.T) {
	repo := &periodRepoStub{periods: []models.Period{{ID: 1, Status: models.PeriodActive}}}
	svc := NewPeriodService(repo, nil, nil)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Zero(t, repo.deletedID)

	_, err = svc.Deactivate(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), 1))
}

func TestPeriodServiceComplete(t *testing.T) {
	repo := &periodRepoStub{periods: []models.Period{{ID: 1, Status: models.PeriodActive, StartDate: time.Now()}}}
	svc := NewPeriodService(repo, nil, nil)

	period, err := svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodCompleted, period.Status)

	again, err := svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodCompleted, again.Status)
}
