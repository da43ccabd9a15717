package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

func TestPeriodRepositorySetActiveKeepsSingleActive(t *testing.T) {
	repo := NewPeriodRepository(kvstore.NewMemory())
	ctx := context.Background()

	first := &models.Period{Name: "Ganjil 2023/2024", Status: models.PeriodActive}
	second := &models.Period{Name: "Genap 2023/2024", Status: models.PeriodInactive}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	activated, err := repo.SetActive(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PeriodActive, activated.Status)

	periods, err := repo.List(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, p := range periods {
		if p.Status == models.PeriodActive {
			activeCount++
			assert.Equal(t, second.ID, p.ID)
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestPeriodRepositorySetActiveUnknownID(t *testing.T) {
	repo := NewPeriodRepository(kvstore.NewMemory())
	_, err := repo.SetActive(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestPeriodRepositoryFindActive(t *testing.T) {
	repo := NewPeriodRepository(kvstore.NewMemory())
	ctx := context.Background()

	_, err := repo.FindActive(ctx)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	period := &models.Period{Name: "Ganjil 2023/2024", Status: models.PeriodActive}
	require.NoError(t, repo.Create(ctx, period))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, period.ID, active.ID)
}

func TestPeriodRepositoryDelete(t *testing.T) {
	repo := NewPeriodRepository(kvstore.NewMemory())
	ctx := context.Background()

	period := &models.Period{Name: "Ganjil 2022/2023", Status: models.PeriodCompleted}
	require.NoError(t, repo.Create(ctx, period))

	require.NoError(t, repo.Delete(ctx, period.ID))
	_, err := repo.FindByID(ctx, period.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, period.ID), ErrRecordNotFound)
}
