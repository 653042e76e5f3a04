package models

import "time"

type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
)

// Friend is an undirected edge stored as an ordered pair (UserLowID < UserHighID).
// RequesterID records who initiated it; once accepted the edge is symmetric.
type Friend struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	UserLowID   uint64       `gorm:"not null;uniqueIndex:idx_friends_pair,priority:1" json:"user_low_id"`
	UserHighID  uint64       `gorm:"not null;uniqueIndex:idx_friends_pair,priority:2" json:"user_high_id"`
	RequesterID uint64       `gorm:"not null" json:"requester_id"`
	Status      FriendStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	UserLow  User `gorm:"foreignKey:UserLowID" json:"-"`
	UserHigh User `gorm:"foreignKey:UserHighID" json:"-"`
}

// NewFriendPair builds a pending edge between requester and receiver in canonical order.
func NewFriendPair(requesterID, receiverID uint64) Friend {
	low, high := OrderedPair(requesterID, receiverID)
	return Friend{
		UserLowID:   low,
		UserHighID:  high,
		RequesterID: requesterID,
		Status:      FriendStatusPending,
	}
}

// OrderedPair returns a and b as (min, max).
func OrderedPair(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Involves reports whether userID is one of the two endpoints.
func (f Friend) Involves(userID uint64) bool {
	return f.UserLowID == userID || f.UserHighID == userID
}

// Other returns the endpoint that is not userID.
func (f Friend) Other(userID uint64) uint64 {
	if f.UserLowID == userID {
		return f.UserHighID
	}
	return f.UserLowID
}

// ReceiverID returns the endpoint that did not initiate the request.
func (f Friend) ReceiverID() uint64 {
	return f.Other(f.RequesterID)
}
