package repository

import (
	"context"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormFriendRepository is a GORM implementation of FriendRepository
type GormFriendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new FriendRepository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &GormFriendRepository{db: db}
}

// Create inserts a relation in canonical order
func (r *GormFriendRepository) Create(ctx context.Context, friend *models.Friend) error {
	friend.UserLowID, friend.UserHighID = models.OrderedPair(friend.UserLowID, friend.UserHighID)
	return translateError(r.db.WithContext(ctx).Create(friend).Error)
}

// FindByID finds a relation by ID
func (r *GormFriendRepository) FindByID(ctx context.Context, id uint64) (*models.Friend, error) {
	var friend models.Friend
	if err := r.db.WithContext(ctx).First(&friend, id).Error; err != nil {
		return nil, err
	}
	return &friend, nil
}

// FindPair finds the relation between two users regardless of who requested it
func (r *GormFriendRepository) FindPair(ctx context.Context, a, b uint64) (*models.Friend, error) {
	low, high := models.OrderedPair(a, b)
	var friend models.Friend
	if err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&friend).Error; err != nil {
		return nil, err
	}
	return &friend, nil
}

// UpdateStatus changes a relation's status
func (r *GormFriendRepository) UpdateStatus(ctx context.Context, id uint64, status models.FriendStatus) error {
	return r.db.WithContext(ctx).Model(&models.Friend{}).Where("id = ?", id).Update("status", status).Error
}

// Delete removes a relation
func (r *GormFriendRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Friend{}, id).Error
}

// ListAccepted lists accepted relations in either direction
func (r *GormFriendRepository) ListAccepted(ctx context.Context, userID uint64) ([]models.Friend, error) {
	var friends []models.Friend
	if err := r.db.WithContext(ctx).
		Where("(user_low_id = ? OR user_high_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Order("id ASC").
		Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// ListIncomingPending lists pending requests sent to the user
func (r *GormFriendRepository) ListIncomingPending(ctx context.Context, userID uint64) ([]models.Friend, error) {
	var friends []models.Friend
	if err := r.db.WithContext(ctx).
		Where("(user_low_id = ? OR user_high_id = ?) AND requester_id <> ? AND status = ?",
			userID, userID, userID, models.FriendStatusPending).
		Order("created_at DESC, id DESC").
		Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}
