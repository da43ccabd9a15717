package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adityawrmn/campus-eval-api/internal/service"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
	"github.com/adityawrmn/campus-eval-api/pkg/response"
)

// EvaluationHandler wires evaluation submission and history to HTTP routes.
type EvaluationHandler struct {
	evaluations *service.EvaluationService
	questions   *service.QuestionService
}

// NewEvaluationHandler constructs an EvaluationHandler.
func NewEvaluationHandler(evaluations *service.EvaluationService, questions *service.QuestionService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations, questions: questions}
}

// Submit godoc
// @Summary Submit an evaluation for the active period
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param kind path string true "Evaluation kind (lecturer or facility)"
// @Param payload body service.SubmitEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Router /evaluate/{kind} [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	kind, ok := evaluationKind(c)
	if !ok {
		return
	}
	claims, ok := currentUser(c)
	if !ok {
		return
	}

	var req service.SubmitEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluation payload"))
		return
	}

	evaluation, err := h.evaluations.Submit(c.Request.Context(), kind, claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, evaluation)
}

// History godoc
// @Summary Evaluation history of the authenticated respondent
// @Tags Evaluations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /evaluations/history [get]
func (h *EvaluationHandler) History(c *gin.Context) {
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.evaluations.HistoryFor(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// HasSubmitted godoc
// @Summary Pre-flight duplicate check for the active period
// @Tags Evaluations
// @Produce json
// @Param kind path string true "Evaluation kind (lecturer or facility)"
// @Param subject_id query int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /evaluate/{kind}/submitted [get]
func (h *EvaluationHandler) HasSubmitted(c *gin.Context) {
	kind, ok := evaluationKind(c)
	if !ok {
		return
	}
	claims, ok := currentUser(c)
	if !ok {
		return
	}
	subjectID, err := strconv.ParseInt(c.Query("subject_id"), 10, 64)
	if err != nil || subjectID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid subject_id parameter"))
		return
	}

	submitted, err := h.evaluations.HasSubmitted(c.Request.Context(), kind, claims.UserID, subjectID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"submitted": submitted}, nil)
}

// Questions godoc
// @Summary Question catalog for an evaluation kind
// @Tags Evaluations
// @Produce json
// @Param kind path string true "Evaluation kind (lecturer or facility)"
// @Success 200 {object} response.Envelope
// @Router /evaluate/{kind}/questions [get]
func (h *EvaluationHandler) Questions(c *gin.Context) {
	kind, ok := evaluationKind(c)
	if !ok {
		return
	}
	categories, err := h.questions.Categories(kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// Courses godoc
// @Summary Static course catalog
// @Tags Evaluations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *EvaluationHandler) Courses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.questions.Courses(), nil)
}
