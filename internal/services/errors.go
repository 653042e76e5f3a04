package services

import "errors"

var (
	ErrUsernameRequired     = errors.New("username is required")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

var (
	ErrNoTasks            = errors.New("a plan needs at least one task")
	ErrTaskTitleRequired  = errors.New("every task needs a title")
	ErrInvalidTime        = errors.New("time must be in HH:MM format")
	ErrNegativePoints     = errors.New("task points cannot be negative")
	ErrPlanBudget         = errors.New("total points must be 100")
	ErrPlanExists         = errors.New("plan already exists")
	ErrPlanLocked         = errors.New("planning is locked for this date")
	ErrPlanDateOutOfRange = errors.New("plans can only be created for tomorrow")
	ErrPlanNotFound       = errors.New("plan not found")
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskForbidden     = errors.New("task belongs to another user")
	ErrInvalidTransition = errors.New("invalid task transition")
	ErrPlanFrozen        = errors.New("tasks of past days can no longer change")
	ErrTaskNotToday      = errors.New("only today's tasks can be started or completed")
	ErrReasonRequired    = errors.New("a reason is required")
)

var (
	ErrFriendSelf           = errors.New("you cannot add yourself as a friend")
	ErrFriendNotFound       = errors.New("friend relation not found")
	ErrFriendRequestPending = errors.New("friend request already sent")
	ErrAlreadyFriends       = errors.New("already friends")
	ErrFriendForbidden      = errors.New("friend relation belongs to other users")
	ErrFriendNotPending     = errors.New("friend request is no longer pending")
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidExportPeriod  = errors.New("period must be one of day, week, month, year")
)
