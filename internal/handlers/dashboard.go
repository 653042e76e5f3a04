package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// DashboardHandler serves the read-only overview endpoints and the CSV export.
type DashboardHandler struct {
	dashboardService *services.DashboardService
	progressService  *services.ProgressService
	exportService    *services.ExportService
	clock            calendar.Clock
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	dashboardService *services.DashboardService,
	progressService *services.ProgressService,
	exportService *services.ExportService,
	clock calendar.Clock,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		progressService:  progressService,
		exportService:    exportService,
		clock:            clock,
	}
}

// GetDashboard returns today's overview
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), userID, h.clock.Today())
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetAnalytics returns trailing week and month statistics
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	analytics, err := h.dashboardService.Analytics(c.Request.Context(), userID, h.clock.Today())
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// GetProgress returns streak, XP and rank
func (h *DashboardHandler) GetProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	progress, err := h.progressService.Progress(c.Request.Context(), userID, h.clock.Today())
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// Export returns ?period=day|week|month|year scores as CSV
func (h *DashboardHandler) Export(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	period, err := services.ParseExportPeriod(c.Query("period"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(c.Request.Context(), &buf, userID, period, h.clock.Today()); err != nil {
		respondInternalError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", period.Filename()))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
