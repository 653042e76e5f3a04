package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// LeaderboardHandler serves friend and global leaderboards.
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	clock              calendar.Clock
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, clock calendar.Clock) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		clock:              clock,
	}
}

// GetLeaderboard handles ?scope=friends|global&period=day|week|month
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	scope, err := scoring.ParseScope(c.Query("scope"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	period, err := scoring.ParsePeriod(c.Query("period"))
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	board, err := h.leaderboardService.Build(c.Request.Context(), userID, scope, period, h.clock.Today())
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}
