package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/pkg/kvstore"
)

// ReportRepository tracks report export jobs in the store.
type ReportRepository struct {
	store kvstore.Store
	mu    sync.Mutex
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(store kvstore.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

// List returns jobs newest first.
func (r *ReportRepository) List(ctx context.Context) ([]models.ReportJob, error) {
	jobs, err := readCatalog[models.ReportJob](ctx, r.store, kvstore.KeyReportJobs)
	if err != nil {
		return nil, err
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

// FindByID fetches a job by its id.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.ReportJob, error) {
	jobs, err := readCatalog[models.ReportJob](ctx, r.store, kvstore.KeyReportJobs)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, ErrRecordNotFound
}

// Create appends a new job record.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := readCatalog[models.ReportJob](ctx, r.store, kvstore.KeyReportJobs)
	if err != nil {
		return err
	}
	jobs = append(jobs, *job)
	return writeCatalog(ctx, r.store, kvstore.KeyReportJobs, jobs)
}

// Update replaces the stored record matching the job's id.
func (r *ReportRepository) Update(ctx context.Context, job *models.ReportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobs, err := readCatalog[models.ReportJob](ctx, r.store, kvstore.KeyReportJobs)
	if err != nil {
		return err
	}
	for i := range jobs {
		if jobs[i].ID == job.ID {
			jobs[i] = *job
			return writeCatalog(ctx, r.store, kvstore.KeyReportJobs, jobs)
		}
	}
	return ErrRecordNotFound
}
