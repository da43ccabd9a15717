package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// LecturerRepository manages the lecturer catalog stored as one JSON array.
type LecturerRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewLecturerRepository constructs a LecturerRepository.
func NewLecturerRepository(store kvstore.Store) *LecturerRepository {
	return &LecturerRepository{store: store}
}

// List returns lecturers sorted newest-id-first, optionally filtered to
// active records only.
func (r *LecturerRepository) List(ctx context.Context, includeInactive bool) ([]models.Lecturer, error) {
	lecturers, err := readCatalog[models.Lecturer](ctx, r.store, kvstore.KeyLecturers)
	if err != nil {
		return nil, err
	}

	if !includeInactive {
		filtered := lecturers[:0]
		for _, l := range lecturers {
			if l.Status == models.StatusActive {
				filtered = append(filtered, l)
			}
		}
		lecturers = filtered
	}

	sort.Slice(lecturers, func(i, j int) bool { return lecturers[i].ID > lecturers[j].ID })
	return lecturers, nil
}

// FindByID fetches a lecturer regardless of status.
func (r *LecturerRepository) FindByID(ctx context.Context, id int64) (*models.Lecturer, error) {
	lecturers, err := readCatalog[models.Lecturer](ctx, r.store, kvstore.KeyLecturers)
	if err != nil {
		return nil, err
	}
	for i := range lecturers {
		if lecturers[i].ID == id {
			return &lecturers[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// ExistsByNIP reports whether a different lecturer already uses the NIP.
func (r *LecturerRepository) ExistsByNIP(ctx context.Context, nip string, excludeID int64) (bool, error) {
	lecturers, err := readCatalog[models.Lecturer](ctx, r.store, kvstore.KeyLecturers)
	if err != nil {
		return false, err
	}
	for _, l := range lecturers {
		if l.NIP == nip && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a new lecturer, assigning the next sequential id and
// stamping timestamps.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lecturers, err := readCatalog[models.Lecturer](ctx, r.store, kvstore.KeyLecturers)
	if err != nil {
		return err
	}

	ids := make([]int64, len(lecturers))
	for i, l := range lecturers {
		ids[i] = l.ID
	}
	lecturer.ID = nextSequentialID(ids)

	now := time.Now().UTC()
	lecturer.CreatedAt = now
	lecturer.UpdatedAt = now

	lecturers = append(lecturers, *lecturer)
	return writeCatalog(ctx, r.store, kvstore.KeyLecturers, lecturers)
}

// Update replaces the stored record matching the lecturer's id.
func (r *LecturerRepository) Update(ctx context.Context, lecturer *models.Lecturer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lecturers, err := readCatalog[models.Lecturer](ctx, r.store, kvstore.KeyLecturers)
	if err != nil {
		return err
	}

	for i := range lecturers {
		if lecturers[i].ID == lecturer.ID {
			lecturer.UpdatedAt = time.Now().UTC()
			lecturers[i] = *lecturer
			return writeCatalog(ctx, r.store, kvstore.KeyLecturers, lecturers)
		}
	}
	return ErrRecordNotFound
}

// Delete removes the record with the given id.
func (r *LecturerRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lecturers, err := readCatalog[models.Lecturer](ctx, r.store, kvstore.KeyLecturers)
	if err != nil {
		return err
	}

	remaining := lecturers[:0]
	found := false
	for _, l := range lecturers {
		if l.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, l)
	}
	if !found {
		return ErrRecordNotFound
	}
	return writeCatalog(ctx, r.store, kvstore.KeyLecturers, remaining)
}
