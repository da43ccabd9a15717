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

type facilityRepository interface {
	List(ctx context.Context, includeInactive bool) ([]models.Facility, error)
	FindByID(ctx context.Context, id int64) (*models.Facility, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, facility *models.Facility) error
	Update(ctx context.Context, facility *models.Facility) error
	Delete(ctx context.Context, id int64) error
}

// FacilityFilter narrows facility listings.
type FacilityFilter struct {
	Query           string
	Category        string
	IncludeInactive bool
	Page            int
	PageSize        int
}

// CreateFacilityRequest represents payload for creating facilities.
type CreateFacilityRequest struct {
	Code        string   `json:"code" validate:"required,max=30"`
	Name        string   `json:"name" validate:"required,max=150"`
	Category    string   `json:"category" validate:"required,max=60"`
	Capacity    int      `json:"capacity" validate:"gte=0"`
	Location    string   `json:"location" validate:"omitempty,max=150"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Amenities   []string `json:"amenities"`
	Icon        string   `json:"icon" validate:"omitempty,max=60"`
	PhotoURL    string   `json:"photo_url" validate:"omitempty,url"`
}

// UpdateFacilityRequest represents payload for updating facilities.
type UpdateFacilityRequest struct {
	Code        string   `json:"code" validate:"required,max=30"`
	Name        string   `json:"name" validate:"required,max=150"`
	Category    string   `json:"category" validate:"required,max=60"`
	Capacity    int      `json:"capacity" validate:"gte=0"`
	Location    string   `json:"location" validate:"omitempty,max=150"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Amenities   []string `json:"amenities"`
	Icon        string   `json:"icon" validate:"omitempty,max=60"`
	PhotoURL    string   `json:"photo_url" validate:"omitempty,url"`
}

// FacilityService orchestrates the facility catalog.
type FacilityService struct {
	repo        facilityRepository
	evaluations evaluationCounter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewFacilityService constructs a FacilityService.
func NewFacilityService(repo facilityRepository, evaluations evaluationCounter, validate *validator.Validate, logger *zap.Logger) *FacilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacilityService{repo: repo, evaluations: evaluations, validator: validate, logger: logger}
}

// List returns facilities matching the filter plus pagination data.
func (s *FacilityService) List(ctx context.Context, filter FacilityFilter) ([]models.Facility, *models.Pagination, error) {
	facilities, err := s.repo.List(ctx, filter.IncludeInactive)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list facilities")
	}

	query := strings.TrimSpace(filter.Query)
	category := strings.TrimSpace(filter.Category)
	if query != "" || category != "" {
		matched := facilities[:0]
		for _, f := range facilities {
			if category != "" && !strings.EqualFold(f.Category, category) {
				continue
			}
			if query != "" && !facilityMatches(f, query) {
				continue
			}
			matched = append(matched, f)
		}
		facilities = matched
	}

	page, pagination := paginate(len(facilities), filter.Page, filter.PageSize)
	return facilities[page.start:page.end], pagination, nil
}

// Get returns a facility by id.
func (s *FacilityService) Get(ctx context.Context, id int64) (*models.Facility, error) {
	facility, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "facility not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load facility")
	}
	return facility, nil
}

// Create registers a new facility with a unique code.
func (s *FacilityService) Create(ctx context.Context, req CreateFacilityRequest) (*models.Facility, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility payload")
	}

	code := strings.TrimSpace(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, code, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check code uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "facility code already registered")
	}

	facility := &models.Facility{
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Capacity:    req.Capacity,
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Amenities:   normalizeList(req.Amenities),
		Icon:        strings.TrimSpace(req.Icon),
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
		Status:      models.StatusActive,
	}
	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create facility")
	}

	s.logger.Info("facility created", zap.Int64("id", facility.ID), zap.String("code", facility.Code))
	return facility, nil
}

// Update modifies an existing facility.
func (s *FacilityService) Update(ctx context.Context, id int64, req UpdateFacilityRequest) (*models.Facility, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid facility payload")
	}

	facility, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check code uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "facility code already registered")
	}

	facility.Code = code
	facility.Name = strings.TrimSpace(req.Name)
	facility.Category = strings.TrimSpace(req.Category)
	facility.Capacity = req.Capacity
	facility.Location = strings.TrimSpace(req.Location)
	facility.Description = strings.TrimSpace(req.Description)
	facility.Amenities = normalizeList(req.Amenities)
	facility.Icon = strings.TrimSpace(req.Icon)
	facility.PhotoURL = strings.TrimSpace(req.PhotoURL)

	if err := s.repo.Update(ctx, facility); err != nil {
		if err == repository.ErrRecordNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "facility not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update facility")
	}
	return facility, nil
}

// ToggleStatus flips a facility between active and inactive.
func (s *FacilityService) ToggleStatus(ctx context.Context, id int64) (*models.Facility, error) {
	facility, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	facility.Status = facility.Status.Toggle()
	if err := s.repo.Update(ctx, facility); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to toggle facility status")
	}
	return facility, nil
}

// Delete removes a facility that has no evaluation history.
func (s *FacilityService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.evaluations.CountBySubject(ctx, models.KindFacility, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to check evaluation history")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "facility has evaluation history and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrRecordNotFound {
			return appErrors.Clone(appErrors.ErrNotFound, "facility not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete facility")
	}

	s.logger.Info("facility deleted", zap.Int64("id", id))
	return nil
}

// Stats summarises activation counts for the catalog.
func (s *FacilityService) Stats(ctx context.Context) (*models.CatalogStats, error) {
	facilities, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list facilities")
	}
	stats := &models.CatalogStats{Total: len(facilities)}
	for _, f := range facilities {
		if f.Status == models.StatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}
	return stats, nil
}

func facilityMatches(f models.Facility, query string) bool {
	needle := strings.ToLower(query)
	return strings.Contains(strings.ToLower(f.Name), needle) ||
		strings.Contains(strings.ToLower(f.Code), needle) ||
		strings.Contains(strings.ToLower(f.Location), needle)
}
