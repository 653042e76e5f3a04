package dto

import (
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/utils"
)

// ScoreDTO is one day of a user's score history
type ScoreDTO struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Message   string                  `json:"message"`
	RelatedID uint64                  `json:"related_id"`
	CreatedAt time.Time               `json:"created_at"`
}

// NotificationListResponse represents a page of unread notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	utils.PaginationResponse
}

// FriendRelationDTO represents a friend relation after a request or accept
type FriendRelationDTO struct {
	ID          uint64              `json:"id"`
	RequesterID uint64              `json:"requester_id"`
	Status      models.FriendStatus `json:"status"`
}

// ToScoreDTOs converts plans to date/score pairs
func ToScoreDTOs(plans []models.DayPlan) []ScoreDTO {
	scores := make([]ScoreDTO, len(plans))
	for i, p := range plans {
		scores[i] = ScoreDTO{Date: p.Date.Format(calendar.DateLayout), Score: p.FinalScore}
	}
	return scores
}

// ToNotificationDTO converts a Notification model
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		CreatedAt: n.CreatedAt,
	}
}

// ToFriendRelationDTO converts a Friend model
func ToFriendRelationDTO(f models.Friend) FriendRelationDTO {
	return FriendRelationDTO{
		ID:          f.ID,
		RequesterID: f.RequesterID,
		Status:      f.Status,
	}
}
