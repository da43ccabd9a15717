package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// PeriodRepository manages the period catalog stored as one JSON array.
type PeriodRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewPeriodRepository constructs a PeriodRepository.
func NewPeriodRepository(store kvstore.Store) *PeriodRepository {
	return &PeriodRepository{store: store}
}

// List returns all periods sorted by creation time descending.
func (r *PeriodRepository) List(ctx context.Context) ([]models.Period, error) {
	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return nil, err
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].CreatedAt.After(periods[j].CreatedAt) })
	return periods, nil
}

// FindByID fetches a period by id.
func (r *PeriodRepository) FindByID(ctx context.Context, id int64) (*models.Period, error) {
	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		if periods[i].ID == id {
			return &periods[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// FindActive returns the single active period, if any.
func (r *PeriodRepository) FindActive(ctx context.Context) (*models.Period, error) {
	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return nil, err
	}
	for i := range periods {
		if periods[i].Status == models.PeriodActive {
			return &periods[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// Create appends a new period with the next sequential id.
func (r *PeriodRepository) Create(ctx context.Context, period *models.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return err
	}

	ids := make([]int64, len(periods))
	for i, p := range periods {
		ids[i] = p.ID
	}
	period.ID = nextSequentialID(ids)

	now := time.Now().UTC()
	period.CreatedAt = now
	period.UpdatedAt = now

	periods = append(periods, *period)
	return writeCatalog(ctx, r.store, kvstore.KeyPeriods, periods)
}

// Update replaces the stored record matching the period's id.
func (r *PeriodRepository) Update(ctx context.Context, period *models.Period) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return err
	}

	for i := range periods {
		if periods[i].ID == period.ID {
			period.UpdatedAt = time.Now().UTC()
			periods[i] = *period
			return writeCatalog(ctx, r.store, kvstore.KeyPeriods, periods)
		}
	}
	return ErrRecordNotFound
}

// SetActive marks the target period active and forces every other active
// period to inactive within the same array write, preserving the at-most-one
// active invariant.
func (r *PeriodRepository) SetActive(ctx context.Context, id int64) (*models.Period, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var activated *models.Period
	for i := range periods {
		switch {
		case periods[i].ID == id:
			periods[i].Status = models.PeriodActive
			periods[i].UpdatedAt = now
			activated = &periods[i]
		case periods[i].Status == models.PeriodActive:
			periods[i].Status = models.PeriodInactive
			periods[i].UpdatedAt = now
		}
	}
	if activated == nil {
		return nil, ErrRecordNotFound
	}

	if err := writeCatalog(ctx, r.store, kvstore.KeyPeriods, periods); err != nil {
		return nil, err
	}
	copied := *activated
	return &copied, nil
}

// Delete removes the record with the given id.
func (r *PeriodRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	periods, err := readCatalog[models.Period](ctx, r.store, kvstore.KeyPeriods)
	if err != nil {
		return err
	}

	remaining := periods[:0]
	found := false
	for _, p := range periods {
		if p.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, p)
	}
	if !found {
		return ErrRecordNotFound
	}
	return writeCatalog(ctx, r.store, kvstore.KeyPeriods, remaining)
}
