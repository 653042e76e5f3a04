package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/utils"
)

// NotificationService reads and acknowledges user notifications
type NotificationService struct {
	store repository.Store
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// ListUnread returns a page of the user's unread notifications and the unread total.
func (s *NotificationService) ListUnread(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.store.Notifications().ListUnread(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	found, err := s.store.Notifications().MarkRead(ctx, userID, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}
