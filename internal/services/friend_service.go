package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"gorm.io/gorm"
)

// FriendService manages the friend graph and the notifications it sends.
type FriendService struct {
	store repository.Store
}

// NewFriendService creates a new FriendService
func NewFriendService(store repository.Store) *FriendService {
	return &FriendService{store: store}
}

// FriendSummary is an accepted friend with their standing for today.
type FriendSummary struct {
	RelationID uint64 `json:"relation_id"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	TodayScore int    `json:"today_score"`
	Streak     int    `json:"streak"`
}

// FriendRequest is a pending request received by the user.
type FriendRequest struct {
	RelationID  uint64    `json:"relation_id"`
	RequesterID uint64    `json:"requester_id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
}

// SendRequest asks the user named username to become friends. If that
// user already asked the requester, the pending request is accepted instead.
func (s *FriendService) SendRequest(ctx context.Context, requesterID uint64, username string) (*models.Friend, error) {
	var result *models.Friend
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		requester, err := tx.Users().FindByID(ctx, requesterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		target, err := tx.Users().FindByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		if target.ID == requesterID {
			return ErrFriendSelf
		}

		existing, err := tx.Friends().FindPair(ctx, requesterID, target.ID)
		switch {
		case err == nil:
			if existing.Status == models.FriendStatusAccepted {
				return ErrAlreadyFriends
			}
			if existing.RequesterID == requesterID {
				return ErrFriendRequestPending
			}
			if err := acceptRequest(ctx, tx, existing, requester); err != nil {
				return err
			}
			result = existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to check friend relation: %w", err)
		}

		friend := models.NewFriendPair(requesterID, target.ID)
		if err := tx.Friends().Create(ctx, &friend); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrFriendRequestPending
			}
			return fmt.Errorf("failed to create friend request: %w", err)
		}
		if err := tx.Notifications().Create(ctx, &models.Notification{
			UserID:    target.ID,
			Type:      models.NotificationFriendRequest,
			Message:   fmt.Sprintf("%s sent you a friend request", requester.Username),
			RelatedID: friend.ID,
		}); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		result = &friend
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Accept accepts a pending request. Only the receiver may accept.
func (s *FriendService) Accept(ctx context.Context, actorID, relationID uint64) (*models.Friend, error) {
	var result *models.Friend
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		friend, err := loadPendingForReceiver(ctx, tx, actorID, relationID)
		if err != nil {
			return err
		}
		actor, err := tx.Users().FindByID(ctx, actorID)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		if err := acceptRequest(ctx, tx, friend, actor); err != nil {
			return err
		}
		result = friend
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Decline drops a pending request. Only the receiver may decline.
func (s *FriendService) Decline(ctx context.Context, actorID, relationID uint64) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		friend, err := loadPendingForReceiver(ctx, tx, actorID, relationID)
		if err != nil {
			return err
		}
		if err := tx.Friends().Delete(ctx, friend.ID); err != nil {
			return fmt.Errorf("failed to delete friend request: %w", err)
		}
		if err := tx.Notifications().MarkReadByRelated(ctx, actorID, friend.ID); err != nil {
			return fmt.Errorf("failed to mark notifications read: %w", err)
		}
		return nil
	})
}

// Remove deletes a relation. Either side may remove it, which also
// withdraws a request the actor sent.
func (s *FriendService) Remove(ctx context.Context, actorID, relationID uint64) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		friend, err := tx.Friends().FindByID(ctx, relationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFriendNotFound
			}
			return fmt.Errorf("failed to find friend relation: %w", err)
		}
		if !friend.Involves(actorID) {
			return ErrFriendForbidden
		}
		if err := tx.Friends().Delete(ctx, friend.ID); err != nil {
			return fmt.Errorf("failed to delete friend relation: %w", err)
		}
		for _, userID := range []uint64{friend.UserLowID, friend.UserHighID} {
			if err := tx.Notifications().MarkReadByRelated(ctx, userID, friend.ID); err != nil {
				return fmt.Errorf("failed to mark notifications read: %w", err)
			}
		}
		return nil
	})
}

// ListFriends lists accepted friends with today's score and streak.
func (s *FriendService) ListFriends(ctx context.Context, userID uint64, today time.Time) ([]FriendSummary, error) {
	edges, err := s.store.Friends().ListAccepted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	if len(edges) == 0 {
		return []FriendSummary{}, nil
	}

	ids := make([]uint64, len(edges))
	relations := make(map[uint64]uint64, len(edges))
	for i, e := range edges {
		ids[i] = e.Other(userID)
		relations[ids[i]] = e.ID
	}

	users, err := s.store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load friends: %w", err)
	}
	histories, err := loadHistories(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]FriendSummary, 0, len(users))
	for _, u := range users {
		h := histories[u.ID]
		summaries = append(summaries, FriendSummary{
			RelationID: relations[u.ID],
			UserID:     u.ID,
			Username:   u.Username,
			TodayScore: h.Score(today),
			Streak:     h.Streak(today),
		})
	}
	return summaries, nil
}

// ListIncoming lists pending requests the user has received, newest first.
func (s *FriendService) ListIncoming(ctx context.Context, userID uint64) ([]FriendRequest, error) {
	edges, err := s.store.Friends().ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	if len(edges) == 0 {
		return []FriendRequest{}, nil
	}

	ids := make([]uint64, len(edges))
	for i, e := range edges {
		ids[i] = e.RequesterID
	}
	users, err := s.store.Users().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load requesters: %w", err)
	}
	names := make(map[uint64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	requests := make([]FriendRequest, len(edges))
	for i, e := range edges {
		requests[i] = FriendRequest{
			RelationID:  e.ID,
			RequesterID: e.RequesterID,
			Username:    names[e.RequesterID],
			CreatedAt:   e.CreatedAt,
		}
	}
	return requests, nil
}

func loadPendingForReceiver(ctx context.Context, tx repository.Store, actorID, relationID uint64) (*models.Friend, error) {
	friend, err := tx.Friends().FindByID(ctx, relationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFriendNotFound
		}
		return nil, fmt.Errorf("failed to find friend relation: %w", err)
	}
	if !friend.Involves(actorID) || friend.RequesterID == actorID {
		return nil, ErrFriendForbidden
	}
	if friend.Status != models.FriendStatusPending {
		return nil, ErrFriendNotPending
	}
	return friend, nil
}

// acceptRequest marks the edge accepted, clears the receiver's request
// notification and tells the requester.
func acceptRequest(ctx context.Context, tx repository.Store, friend *models.Friend, receiver *models.User) error {
	if err := tx.Friends().UpdateStatus(ctx, friend.ID, models.FriendStatusAccepted); err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}
	friend.Status = models.FriendStatusAccepted

	if err := tx.Notifications().MarkReadByRelated(ctx, receiver.ID, friend.ID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if err := tx.Notifications().Create(ctx, &models.Notification{
		UserID:    friend.RequesterID,
		Type:      models.NotificationFriendAccepted,
		Message:   fmt.Sprintf("%s accepted your friend request", receiver.Username),
		RelatedID: friend.ID,
	}); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
