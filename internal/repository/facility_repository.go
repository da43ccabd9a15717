package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// FacilityRepository manages the facility catalog stored as one JSON array.
type FacilityRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewFacilityRepository constructs a FacilityRepository.
func NewFacilityRepository(store kvstore.Store) *FacilityRepository {
	return &FacilityRepository{store: store}
}

// List returns facilities sorted newest-id-first, optionally filtered to
// active records only.
func (r *FacilityRepository) List(ctx context.Context, includeInactive bool) ([]models.Facility, error) {
	facilities, err := readCatalog[models.Facility](ctx, r.store, kvstore.KeyFacilities)
	if err != nil {
		return nil, err
	}

	if !includeInactive {
		filtered := facilities[:0]
		for _, f := range facilities {
			if f.Status == models.StatusActive {
				filtered = append(filtered, f)
			}
		}
		facilities = filtered
	}

	sort.Slice(facilities, func(i, j int) bool { return facilities[i].ID > facilities[j].ID })
	return facilities, nil
}

// FindByID fetches a facility regardless of status.
func (r *FacilityRepository) FindByID(ctx context.Context, id int64) (*models.Facility, error) {
	facilities, err := readCatalog[models.Facility](ctx, r.store, kvstore.KeyFacilities)
	if err != nil {
		return nil, err
	}
	for i := range facilities {
		if facilities[i].ID == id {
			return &facilities[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// ExistsByCode reports whether a different facility already uses the code.
func (r *FacilityRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	facilities, err := readCatalog[models.Facility](ctx, r.store, kvstore.KeyFacilities)
	if err != nil {
		return false, err
	}
	for _, f := range facilities {
		if f.Code == code && f.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create appends a new facility with the next sequential id.
func (r *FacilityRepository) Create(ctx context.Context, facility *models.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	facilities, err := readCatalog[models.Facility](ctx, r.store, kvstore.KeyFacilities)
	if err != nil {
		return err
	}

	ids := make([]int64, len(facilities))
	for i, f := range facilities {
		ids[i] = f.ID
	}
	facility.ID = nextSequentialID(ids)

	now := time.Now().UTC()
	facility.CreatedAt = now
	facility.UpdatedAt = now

	facilities = append(facilities, *facility)
	return writeCatalog(ctx, r.store, kvstore.KeyFacilities, facilities)
}

// Update replaces the stored record matching the facility's id.
func (r *FacilityRepository) Update(ctx context.Context, facility *models.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	facilities, err := readCatalog[models.Facility](ctx, r.store, kvstore.KeyFacilities)
	if err != nil {
		return err
	}

	for i := range facilities {
		if facilities[i].ID == facility.ID {
			facility.UpdatedAt = time.Now().UTC()
			facilities[i] = *facility
			return writeCatalog(ctx, r.store, kvstore.KeyFacilities, facilities)
		}
	}
	return ErrRecordNotFound
}

// Delete removes the record with the given id.
func (r *FacilityRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	facilities, err := readCatalog[models.Facility](ctx, r.store, kvstore.KeyFacilities)
	if err != nil {
		return err
	}

	remaining := facilities[:0]
	found := false
	for _, f := range facilities {
		if f.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, f)
	}
	if !found {
		return ErrRecordNotFound
	}
	return writeCatalog(ctx, r.store, kvstore.KeyFacilities, remaining)
}
