package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

func TestLecturerRepositoryCreateAssignsSequentialIDs(t *testing.T) {
	repo := NewLecturerRepository(kvstore.NewMemory())
	ctx := context.Background()

	first := &models.Lecturer{NIP: "111", FullName: "Dr. Budi Santoso", Status: models.StatusActive}
	second := &models.Lecturer{NIP: "222", FullName: "Dra. Siti Rahayu", Status: models.StatusActive}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestLecturerRepositoryFindByID(t *testing.T) {
	repo := NewLecturerRepository(kvstore.NewMemory())
	ctx := context.Background()

	lecturer := &models.Lecturer{NIP: "111", FullName: "Dr. Budi Santoso", Status: models.StatusActive}
	require.NoError(t, repo.Create(ctx, lecturer))

	found, err := repo.FindByID(ctx, lecturer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Budi Santoso", found.FullName)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestLecturerRepositoryListFiltersInactive(t *testing.T) {
	repo := NewLecturerRepository(kvstore.NewMemory())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Lecturer{NIP: "111", FullName: "A", Status: models.StatusActive}))
	require.NoError(t, repo.Create(ctx, &models.Lecturer{NIP: "222", FullName: "B", Status: models.StatusInactive}))

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Newest id first.
	assert.Equal(t, int64(2), all[0].ID)
}

func TestLecturerRepositoryExistsByNIP(t *testing.T) {
	repo := NewLecturerRepository(kvstore.NewMemory())
	ctx := context.Background()

	lecturer := &models.Lecturer{NIP: "111", FullName: "A", Status: models.StatusActive}
	require.NoError(t, repo.Create(ctx, lecturer))

	exists, err := repo.ExistsByNIP(ctx, "111", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	// The owner itself is excluded on update checks.
	exists, err = repo.ExistsByNIP(ctx, "111", lecturer.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLecturerRepositoryUpdateAndDelete(t *testing.T) {
	repo := NewLecturerRepository(kvstore.NewMemory())
	ctx := context.Background()

	lecturer := &models.Lecturer{NIP: "111", FullName: "A", Status: models.StatusActive}
	require.NoError(t, repo.Create(ctx, lecturer))

	lecturer.FullName = "A, M.Kom"
	require.NoError(t, repo.Update(ctx, lecturer))
	found, err := repo.FindByID(ctx, lecturer.ID)
	require.NoError(t, err)
	assert.Equal(t, "A, M.Kom", found.FullName)

	require.NoError(t, repo.Delete(ctx, lecturer.ID))
	_, err = repo.FindByID(ctx, lecturer.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	assert.ErrorIs(t, repo.Update(ctx, lecturer), ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, lecturer.ID), ErrRecordNotFound)
}
