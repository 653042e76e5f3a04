package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// TaskHandler serves task execution actions. Task IDs are parsed by
// middleware.RequireIDParam.
type TaskHandler struct {
	taskService *services.TaskService
	clock       calendar.Clock
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, clock calendar.Clock) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		clock:       clock,
	}
}

type timeRequest struct {
	// Time is the wall-clock time of the action, "now" when omitted
	Time string `json:"time"`
}

// GetTask returns one of the user's tasks
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := taskTarget(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// StartTask marks a pending task active
func (h *TaskHandler) StartTask(c *gin.Context) {
	userID, taskID, ok := taskTarget(c)
	if !ok {
		return
	}
	at, ok := h.bindTime(c)
	if !ok {
		return
	}

	result, err := h.taskService.StartTask(c.Request.Context(), userID, taskID, at, h.clock.Today())
	respondTaskResult(c, result, err)
}

// CompleteTask finishes an active task
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID, taskID, ok := taskTarget(c)
	if !ok {
		return
	}
	at, ok := h.bindTime(c)
	if !ok {
		return
	}

	result, err := h.taskService.CompleteTask(c.Request.Context(), userID, taskID, at, h.clock.Today())
	respondTaskResult(c, result, err)
}

// CancelTask cancels a pending or active task with a reason
func (h *TaskHandler) CancelTask(c *gin.Context) {
	userID, taskID, ok := taskTarget(c)
	if !ok {
		return
	}

	var req struct {
		Reason  string `json:"reason" binding:"required,max=1000"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, services.ErrReasonRequired.Error())
		return
	}

	result, err := h.taskService.CancelTask(c.Request.Context(), userID, taskID, services.CancelTaskInput{
		Reason:  req.Reason,
		Comment: req.Comment,
	}, h.clock.Today())
	respondTaskResult(c, result, err)
}

// MarkIncomplete closes a pending or active task as not done
func (h *TaskHandler) MarkIncomplete(c *gin.Context) {
	userID, taskID, ok := taskTarget(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, services.ErrReasonRequired.Error())
		return
	}

	result, err := h.taskService.MarkIncomplete(c.Request.Context(), userID, taskID, req.Reason, h.clock.Today())
	respondTaskResult(c, result, err)
}

// DeleteTask removes a pending task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := taskTarget(c)
	if !ok {
		return
	}

	result, err := h.taskService.DeleteTask(c.Request.Context(), userID, taskID, h.clock.Today())
	respondTaskResult(c, result, err)
}

// bindTime reads the optional {"time":"HH:MM"} body
func (h *TaskHandler) bindTime(c *gin.Context) (string, bool) {
	var req timeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return "", false
		}
	}
	if req.Time == "" {
		now := h.clock.Now()
		req.Time = calendar.WallClock{Hour: now.Hour(), Minute: now.Minute()}.String()
	}
	return req.Time, true
}

func taskTarget(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}
	taskID, exists = middleware.GetResourceID(c)
	if !exists {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}
	return userID, taskID, true
}

func respondTaskResult(c *gin.Context, result *services.TaskActionResult, err error) {
	if err != nil {
		respondTaskError(c, err)
		return
	}

	resp := dto.TaskActionResponse{PlanID: result.PlanID, FinalScore: result.FinalScore}
	if result.Task != nil {
		task := dto.ToTaskDTO(*result.Task)
		resp.Task = &task
	}
	c.JSON(http.StatusOK, resp)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrReasonRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrPlanFrozen),
		errors.Is(err, services.ErrTaskNotToday):
		apierrors.InvalidOperation(c, err.Error())
	default:
		respondInternalError(c, err)
	}
}
