package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/utils"
)

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("repository: duplicate record")

// Store bundles the repositories so a service can run several of them in
// one transaction.
type Store interface {
	Users() UserRepository
	Plans() PlanRepository
	Tasks() TaskRepository
	Friends() FriendRepository
	Notifications() NotificationRepository

	// Transaction runs fn against a Store bound to a single transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; a taken username yields ErrDuplicate
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByIDs loads the given users ordered by ID
	FindByIDs(ctx context.Context, ids []uint64) ([]models.User, error)

	// ListGlobal lists users visible on the global leaderboard ordered by ID
	ListGlobal(ctx context.Context) ([]models.User, error)

	// UpdateShowGlobal sets the global leaderboard visibility flag
	UpdateShowGlobal(ctx context.Context, id uint64, show bool) error
}

// PlanRepository defines the interface for day plan data access
type PlanRepository interface {
	// Create inserts a plan and its tasks; a second plan for the same
	// user and date yields ErrDuplicate
	Create(ctx context.Context, plan *models.DayPlan) error

	// FindByID finds a plan by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.DayPlan, error)

	// FindByUserAndDate finds the plan of a user for a calendar day
	FindByUserAndDate(ctx context.Context, userID uint64, date time.Time, preload ...string) (*models.DayPlan, error)

	// ListByUsers lists every plan of the given users ordered by user and date
	ListByUsers(ctx context.Context, userIDs []uint64) ([]models.DayPlan, error)

	// ListByUserBetween lists a user's plans within [start, end] ordered by date
	ListByUserBetween(ctx context.Context, userID uint64, start, end time.Time) ([]models.DayPlan, error)

	// InBatches walks every plan in ID order
	InBatches(ctx context.Context, size int, fn func(plans []models.DayPlan) error) error

	// UpdateFinalScore stores a recomputed final score
	UpdateFinalScore(ctx context.Context, planID uint64, score int) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// ListByPlan lists a plan's tasks ordered by expected start
	ListByPlan(ctx context.Context, planID uint64) ([]models.Task, error)

	// Update saves a task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task
	Delete(ctx context.Context, id uint64) error

	// CompletedPoints sums the points of a plan's completed tasks
	CompletedPoints(ctx context.Context, planID uint64) (int, error)

	// CompletedPointsByPlan sums completed points per plan
	CompletedPointsByPlan(ctx context.Context, planIDs []uint64) (map[uint64]int, error)
}

// FriendRepository defines the interface for friend relation data access
type FriendRepository interface {
	// Create inserts a relation; an existing pair yields ErrDuplicate
	Create(ctx context.Context, friend *models.Friend) error

	// FindByID finds a relation by ID
	FindByID(ctx context.Context, id uint64) (*models.Friend, error)

	// FindPair finds the relation between two users regardless of direction
	FindPair(ctx context.Context, a, b uint64) (*models.Friend, error)

	// UpdateStatus changes a relation's status
	UpdateStatus(ctx context.Context, id uint64, status models.FriendStatus) error

	// Delete removes a relation
	Delete(ctx context.Context, id uint64) error

	// ListAccepted lists accepted relations touching the user
	ListAccepted(ctx context.Context, userID uint64) ([]models.Friend, error)

	// ListIncomingPending lists pending requests the user has received
	ListIncomingPending(ctx context.Context, userID uint64) ([]models.Friend, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create creates a notification
	Create(ctx context.Context, n *models.Notification) error

	// ListUnread lists a user's unread notifications, newest first
	ListUnread(ctx context.Context, userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID uint64) (int64, error)

	// MarkRead marks one of the user's notifications read and reports whether it existed
	MarkRead(ctx context.Context, userID, id uint64) (bool, error)

	// MarkReadByRelated marks the user's notifications about a relation read
	MarkReadByRelated(ctx context.Context, userID, relatedID uint64) error
}
