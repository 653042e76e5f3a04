package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/services"
	"github.com/yukikurage/daily-planner-api/internal/utils"
)

// NotificationHandler serves unread notifications.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListUnread returns a page of unread notifications, newest first
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.ListUnread(c.Request.Context(), userID, params)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	items := make([]dto.NotificationDTO, len(notifications))
	for i, n := range notifications {
		items[i] = dto.ToNotificationDTO(n)
	}
	c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications:      items,
		PaginationResponse: params.Response(total),
	})
}

// MarkRead marks a notification read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	id, exists := middleware.GetResourceID(c)
	if !exists {
		apierrors.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		respondInternalError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
