package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// PlanHandler serves day plan creation and lookup.
type PlanHandler struct {
	planService *services.PlanService
	clock       calendar.Clock
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *services.PlanService, clock calendar.Clock) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		clock:       clock,
	}
}

type planTaskRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description"`
	Start       string `json:"start" binding:"required"`
	End         string `json:"end" binding:"required"`
	Points      int    `json:"points"`
}

// CreatePlan stores tomorrow's plan
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req struct {
		Tasks []planTaskRequest `json:"tasks" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	input := services.CreatePlanInput{UserID: userID}
	for _, t := range req.Tasks {
		input.Tasks = append(input.Tasks, services.PlanTaskInput{
			Title:       t.Title,
			Description: t.Description,
			Start:       t.Start,
			End:         t.End,
			Points:      t.Points,
		})
	}

	today := h.clock.Today()
	plan, err := h.planService.CreatePlan(c.Request.Context(), input, today)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPlanDTO(*plan, services.IsPlanLocked(plan.Date, today)))
}

// GetToday returns today's plan
func (h *PlanHandler) GetToday(c *gin.Context) {
	h.respondPlan(c, h.clock.Today())
}

// GetTomorrow returns tomorrow's plan
func (h *PlanHandler) GetTomorrow(c *gin.Context) {
	h.respondPlan(c, calendar.AddDays(h.clock.Today(), 1))
}

// GetHistory returns the plan of ?date=YYYY-MM-DD, today when omitted
func (h *PlanHandler) GetHistory(c *gin.Context) {
	day := h.clock.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := calendar.ParseDate(raw)
		if err != nil {
			apierrors.BadRequest(c, "date must be in YYYY-MM-DD format")
			return
		}
		day = parsed
	}
	h.respondPlan(c, day)
}

// ListScores returns the user's daily scores between ?start= and ?end=,
// defaulting to the trailing 30 days
func (h *PlanHandler) ListScores(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	end := h.clock.Today()
	start := calendar.AddDays(end, -30)
	var err error
	if raw := c.Query("start"); raw != "" {
		if start, err = calendar.ParseDate(raw); err != nil {
			apierrors.BadRequest(c, "start must be in YYYY-MM-DD format")
			return
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = calendar.ParseDate(raw); err != nil {
			apierrors.BadRequest(c, "end must be in YYYY-MM-DD format")
			return
		}
	}
	if end.Before(start) {
		apierrors.BadRequest(c, "end must not be before start")
		return
	}

	plans, err := h.planService.ListScores(c.Request.Context(), userID, start, end)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scores": dto.ToScoreDTOs(plans)})
}

func (h *PlanHandler) respondPlan(c *gin.Context, day time.Time) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, day)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPlanDTO(*plan, services.IsPlanLocked(plan.Date, h.clock.Today())))
}

func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPlanBudget),
		errors.Is(err, services.ErrNoTasks),
		errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrNegativePoints),
		errors.Is(err, services.ErrPlanDateOutOfRange):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPlanLocked):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrPlanExists):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrPlanNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		respondInternalError(c, err)
	}
}
