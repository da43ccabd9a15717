package service

import (
	"github.com/adityawrmn/campus-eval-api/internal/models"
	"github.com/adityawrmn/campus-eval-api/internal/seed"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
)

// QuestionService serves the compiled-in question catalogs.
type QuestionService struct{}

// NewQuestionService constructs a QuestionService.
func NewQuestionService() *QuestionService {
	return &QuestionService{}
}

// Categories returns the grouped question form for an evaluation kind.
func (s *QuestionService) Categories(kind models.EvaluationKind) ([]models.QuestionCategory, error) {
	categories := seed.QuestionCategories(kind)
	if categories == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown evaluation kind")
	}
	return categories, nil
}

// Courses returns the static course catalog.
func (s *QuestionService) Courses() []models.Course {
	return seed.Courses
}

// FacilityCategories returns the selectable facility groupings.
func (s *QuestionService) FacilityCategories() []string {
	return seed.FacilityCategories
}
