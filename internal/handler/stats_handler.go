package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/adityawrmn/campus-eval-api/internal/service"
	"github.com/adityawrmn/campus-eval-api/pkg/response"
)

// StatsHandler wires statistics aggregation to HTTP routes.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard godoc
// @Summary Admin dashboard statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Aggregate godoc
// @Summary Per-subject rating aggregates for one kind
// @Tags Statistics
// @Produce json
// @Param kind path string true "Evaluation kind (lecturer or facility)"
// @Success 200 {object} response.Envelope
// @Router /stats/summary/{kind} [get]
func (h *StatsHandler) Aggregate(c *gin.Context) {
	kind, ok := evaluationKind(c)
	if !ok {
		return
	}
	results, err := h.stats.Aggregate(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// TopLecturers godoc
// @Summary Highest rated lecturers
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/top-lecturers [get]
func (h *StatsHandler) TopLecturers(c *gin.Context) {
	results, err := h.stats.TopLecturers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// FacilitiesAttention godoc
// @Summary Facilities rated below the attention threshold
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/facilities-attention [get]
func (h *StatsHandler) FacilitiesAttention(c *gin.Context) {
	results, err := h.stats.FacilitiesNeedingAttention(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// MonthlyTrend godoc
// @Summary Submission counts per month
// @Tags Statistics
// @Produce json
// @Param months query int false "Trailing window in months (default 6)"
// @Success 200 {object} response.Envelope
// @Router /stats/monthly-trend [get]
func (h *StatsHandler) MonthlyTrend(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "6"))
	points, err := h.stats.MonthlyTrend(c.Request.Context(), months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}
