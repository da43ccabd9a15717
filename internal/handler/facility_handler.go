package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adityawrmn/campus-eval-api/internal/service"
	appErrors "github.com/adityawrmn/campus-eval-api/pkg/errors"
	"github.com/adityawrmn/campus-eval-api/pkg/response"
)

// FacilityHandler wires the facility catalog to HTTP routes.
type FacilityHandler struct {
	facilities *service.FacilityService
	questions  *service.QuestionService
}

// NewFacilityHandler constructs a FacilityHandler.
func NewFacilityHandler(facilities *service.FacilityService, questions *service.QuestionService) *FacilityHandler {
	return &FacilityHandler{facilities: facilities, questions: questions}
}

// List godoc
// @Summary List facilities
// @Tags Facilities
// @Produce json
// @Param search query string false "Search by name/code/location"
// @Param category query string false "Filter by category"
// @Param include_inactive query bool false "Include inactive facilities"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /facilities [get]
func (h *FacilityHandler) List(c *gin.Context) {
	filter := service.FacilityFilter{
		Query:           strings.TrimSpace(c.Query("search")),
		Category:        strings.TrimSpace(c.Query("category")),
		IncludeInactive: strings.EqualFold(c.Query("include_inactive"), "true"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	facilities, pagination, err := h.facilities.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facilities, pagination)
}

// Get godoc
// @Summary Get facility detail
// @Tags Facilities
// @Produce json
// @Param id path int true "Facility ID"
// @Success 200 {object} response.Envelope
// @Router /facilities/{id} [get]
func (h *FacilityHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	facility, err := h.facilities.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facility, nil)
}

// Create godoc
// @Summary Create facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Param payload body service.CreateFacilityRequest true "Facility payload"
// @Success 201 {object} response.Envelope
// @Router /facilities [post]
func (h *FacilityHandler) Create(c *gin.Context) {
	var req service.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}
	facility, err := h.facilities.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, facility)
}

// Update godoc
// @Summary Update facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Param id path int true "Facility ID"
// @Param payload body service.UpdateFacilityRequest true "Facility payload"
// @Success 200 {object} response.Envelope
// @Router /facilities/{id} [put]
func (h *FacilityHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req service.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid facility payload"))
		return
	}
	facility, err := h.facilities.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facility, nil)
}

// ToggleStatus godoc
// @Summary Toggle facility activation status
// @Tags Facilities
// @Produce json
// @Param id path int true "Facility ID"
// @Success 200 {object} response.Envelope
// @Router /facilities/{id}/toggle-status [patch]
func (h *FacilityHandler) ToggleStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	facility, err := h.facilities.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, facility, nil)
}

// Delete godoc
// @Summary Delete facility
// @Tags Facilities
// @Produce json
// @Param id path int true "Facility ID"
// @Success 204
// @Router /facilities/{id} [delete]
func (h *FacilityHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.facilities.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Facility catalog counts
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/facilities [get]
func (h *FacilityHandler) Stats(c *gin.Context) {
	stats, err := h.facilities.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Categories godoc
// @Summary Selectable facility categories
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /facility-categories [get]
func (h *FacilityHandler) Categories(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.questions.FacilityCategories(), nil)
}
