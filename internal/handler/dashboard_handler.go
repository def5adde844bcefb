package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campus-labs/college-erp-api/internal/service"
	"github.com/campus-labs/college-erp-api/pkg/response"
)

// DashboardHandler exposes the institution-wide aggregation views.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Metrics godoc
// @Summary Institution-wide metrics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.dashboards.InstitutionMetrics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics, nil)
}

// TopPerformers godoc
// @Summary Students ranked by CGPA
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Number of rows" default(5)
// @Success 200 {object} response.Envelope
// @Router /dashboard/top-performers [get]
func (h *DashboardHandler) TopPerformers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	performers, err := h.dashboards.TopPerformers(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, performers, nil)
}

// ClassAverage godoc
// @Summary Mean CGPA across approved students, with per-course breakdown
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/class-average [get]
func (h *DashboardHandler) ClassAverage(c *gin.Context) {
	averages, err := h.dashboards.ClassAverage(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, averages, nil)
}
