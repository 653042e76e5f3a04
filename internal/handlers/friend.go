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

// FriendHandler serves friend requests and the friend list.
type FriendHandler struct {
	friendService *services.FriendService
	clock         calendar.Clock
}

// NewFriendHandler creates a new FriendHandler
func NewFriendHandler(friendService *services.FriendService, clock calendar.Clock) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
		clock:         clock,
	}
}

// SendRequest asks another user, by username, to become friends
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "username is required")
		return
	}

	friend, err := h.friendService.SendRequest(c.Request.Context(), userID, req.Username)
	if err != nil {
		respondFriendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFriendRelationDTO(*friend))
}

// ListRequests lists pending requests received by the user
func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	requests, err := h.friendService.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		respondFriendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ListFriends lists accepted friends with today's score and streak
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	friends, err := h.friendService.ListFriends(c.Request.Context(), userID, h.clock.Today())
	if err != nil {
		respondFriendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// Accept accepts a received request
func (h *FriendHandler) Accept(c *gin.Context) {
	userID, relationID, ok := friendTarget(c)
	if !ok {
		return
	}

	friend, err := h.friendService.Accept(c.Request.Context(), userID, relationID)
	if err != nil {
		respondFriendError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFriendRelationDTO(*friend))
}

// Decline drops a received request
func (h *FriendHandler) Decline(c *gin.Context) {
	userID, relationID, ok := friendTarget(c)
	if !ok {
		return
	}

	if err := h.friendService.Decline(c.Request.Context(), userID, relationID); err != nil {
		respondFriendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Remove deletes a friendship or a sent request
func (h *FriendHandler) Remove(c *gin.Context) {
	userID, relationID, ok := friendTarget(c)
	if !ok {
		return
	}

	if err := h.friendService.Remove(c.Request.Context(), userID, relationID); err != nil {
		respondFriendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func friendTarget(c *gin.Context) (userID, relationID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}
	relationID, exists = middleware.GetResourceID(c)
	if !exists {
		apierrors.BadRequest(c, "Invalid friend ID")
		return 0, 0, false
	}
	return userID, relationID, true
}

func respondFriendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFriendSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFriendNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFriendRequestPending),
		errors.Is(err, services.ErrAlreadyFriends):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrFriendForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrFriendNotPending):
		apierrors.InvalidOperation(c, err.Error())
	default:
		respondInternalError(c, err)
	}
}
