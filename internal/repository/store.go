package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository                 { return &GormUserRepository{db: s.db} }
func (s *GormStore) Plans() PlanRepository                 { return &GormPlanRepository{db: s.db} }
func (s *GormStore) Tasks() TaskRepository                 { return &GormTaskRepository{db: s.db} }
func (s *GormStore) Friends() FriendRepository             { return &GormFriendRepository{db: s.db} }
func (s *GormStore) Notifications() NotificationRepository { return &GormNotificationRepository{db: s.db} }

// Transaction runs fn inside a database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// translateError maps unique violations onto ErrDuplicate. Drivers opened
// with TranslateError report gorm.ErrDuplicatedKey; the message checks cover
// connections opened without it.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") {
		return ErrDuplicate
	}
	return err
}
