package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/repository"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
)

type lecturerRepository interface {
	List(ctx context.Context, includeInactive bool) ([]models.Lecturer, error)
	FindByID(ctx context.Context, id int64) (*models.Lecturer, error)
	ExistsByNIP(ctx context.Context, nip string, excludeID int64) (bool, error)
	Create(ctx context.Context, lecturer *models.Lecturer) error
	Update(ctx context.Context, lecturer *models.Lecturer) error
	Delete(ctx context.Context, id int64) error
}

type evaluationCounter interface {
	CountBySubject(ctx context.Context, kind models.EvaluationKind, subjectID int64) (int, error)
}

// LecturerFilter narrows lecturer listings.
type LecturerFilter struct {
	Query           string
	IncludeInactive bool
	Page            int
	PageSize        int
}

// CreateLecturerRequest represents payload for creating lecturers.
type CreateLecturerRequest struct {
	NIP      string   `json:"nip" validate:"required,max=30"`
	FullName string   `json:"full_name" validate:"required,max=150"`
	Courses  []string `json:"courses"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Bio      string   `json:"bio" validate:"omitempty,max=500"`
	PhotoURL string   `json:"photo_url" validate:"omitempty,url"`
}

// UpdateLecturerRequest represents payload for updating lecturers.
type UpdateLecturerRequest struct {
	NIP      string   `json:"nip" validate:"required,max=30"`
	FullName string   `json:"full_name" validate:"required,max=150"`
	Courses  []string `json:"courses"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Bio      string   `json:"bio" validate:"omitempty,max=500"`
	PhotoURL string   `json:"photo_url" validate:"omitempty,url"`
}

// LecturerService orchestrates the lecturer catalog.
type LecturerService struct {
	repo        lecturerRepository
	evaluations evaluationCounter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewLecturerService constructs a LecturerService.
func NewLecturerService(repo lecturerRepository, evaluations evaluationCounter, validate *validator.Validate, logger *zap.Logger) *LecturerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LecturerService{repo: repo, evaluations: evaluations, validator: validate, logger: logger}
}

// List returns lecturers matching the filter plus pagination data.
func (s *LecturerService) List(ctx context.Context, filter LecturerFilter) ([]models.Lecturer, *models.Pagination, error) {
	lecturers, err := s.repo.List(ctx, filter.IncludeInactive)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list lecturers")
	}

	if query := strings.TrimSpace(filter.Query); query != "" {
		matched := lecturers[:0]
		for _, l := range lecturers {
			if lecturerMatches(l, query) {
				matched = append(matched, l)
			}
		}
		lecturers = matched
	}

	page, pagination := paginate(len(lecturers), filter.Page, filter.PageSize)
	return lecturers[page.start:page.end], pagination, nil
}

// Get returns a lecturer by id.
func (s *LecturerService) Get(ctx context.Context, id int64) (*models.Lecturer, error) {
	lecturer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load lecturer")
	}
	return lecturer, nil
}

// Create registers a new lecturer with a unique NIP.
func (s *LecturerService) Create(ctx context.Context, req CreateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}

	nip := strings.TrimSpace(req.NIP)
	exists, err := s.repo.ExistsByNIP(ctx, nip, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check NIP uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "NIP already registered")
	}

	lecturer := &models.Lecturer{
		NIP:      nip,
		FullName: strings.TrimSpace(req.FullName),
		Courses:  normalizeList(req.Courses),
		Email:    strings.TrimSpace(req.Email),
		Bio:      strings.TrimSpace(req.Bio),
		PhotoURL: strings.TrimSpace(req.PhotoURL),
		Status:   models.StatusActive,
	}
	if err := s.repo.Create(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create lecturer")
	}

	s.logger.Info("lecturer created", zap.Int64("id", lecturer.ID), zap.String("nip", lecturer.NIP))
	return lecturer, nil
}

// Update modifies an existing lecturer.
func (s *LecturerService) Update(ctx context.Context, id int64, req UpdateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}

	lecturer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	nip := strings.TrimSpace(req.NIP)
	exists, err := s.repo.ExistsByNIP(ctx, nip, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check NIP uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "NIP already registered")
	}

	lecturer.NIP = nip
	lecturer.FullName = strings.TrimSpace(req.FullName)
	lecturer.Courses = normalizeList(req.Courses)
	lecturer.Email = strings.TrimSpace(req.Email)
	lecturer.Bio = strings.TrimSpace(req.Bio)
	lecturer.PhotoURL = strings.TrimSpace(req.PhotoURL)

	if err := s.repo.Update(ctx, lecturer); err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update lecturer")
	}
	return lecturer, nil
}

// ToggleStatus flips a lecturer between active and inactive.
func (s *LecturerService) ToggleStatus(ctx context.Context, id int64) (*models.Lecturer, error) {
	lecturer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	lecturer.Status = lecturer.Status.Toggle()
	if err := s.repo.Update(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to toggle lecturer status")
	}
	return lecturer, nil
}

// Delete removes a lecturer that has no evaluation history.
func (s *LecturerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.evaluations.CountBySubject(ctx, models.KindLecturer, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check evaluation history")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "lecturer has evaluation history and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrRecordNotFound {
			return appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete lecturer")
	}

	s.logger.Info("lecturer deleted", zap.Int64("id", id))
	return nil
}

// Stats summarises activation counts for the catalog.
func (s *LecturerService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	lecturers, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list lecturers")
	}
	stats := &models.CatalogStats{Total: len(lecturers)}
	for _, l := range lecturers {
		if l.Status == models.StatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return stats, nil
}

func lecturerMatches(l models.Lecturer, query string) bool {
	needle := strings.ToLower(query)
	if strings.Contains(strings.ToLower(l.FullName), needle) || strings.Contains(strings.ToLower(l.NIP), needle) {
		return true
	}
	for _, course := range l.Courses {
		if strings.Contains(strings.ToLower(course), needle) {
			return true
		}
	}
	return false
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
