package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adityawrmn/campus-eval-api/internal/middleware"
	"github.com/adityawrmn/campus-eval-api/internal/models"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
	"github.com/adityawrmn/campus-eval-api/pkg/response"
)

// idParam parses the :id path segment as an int64, writing a validation
// error response on failure.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid id parameter"))
		return 0, false
	}
	return id, true
}

// currentUser pulls the authenticated claims set by the JWT middleware.
func currentUser(c *gin.Context) (*models.JWTClaims, bool) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}

// evaluationKind maps the :kind path segment onto a known kind.
func evaluationKind(c *gin.Context) (models.EvaluationKind, bool) {
	switch c.Param("kind") {
	case "lecturer":
		return models.KindLecturer, true
	case "facility":
		return models.KindFacility, true
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "kind must be lecturer or facility"))
		return "", false
	}
}
