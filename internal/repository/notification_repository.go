package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/utils"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListUnread lists unread notifications with pagination
func (r *GormNotificationRepository) ListUnread(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.
		Order("created_at DESC, id DESC").
		Scopes(database.Paginate(params)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread counts unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&total).Error
	return total, err
}

// MarkRead marks a single notification read
func (r *GormNotificationRepository) MarkRead(ctx context.Context, userID, id uint64) (bool, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
		return false, err
	}
	return true, nil
}

// MarkReadByRelated marks notifications about a relation read
func (r *GormNotificationRepository) MarkReadByRelated(ctx context.Context, userID, relatedID uint64) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND related_id = ?", userID, relatedID).
		Update("is_read", true).Error
}
