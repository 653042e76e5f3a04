package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusActive     TaskStatus = "active"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusIncomplete TaskStatus = "incomplete"
)

// IsTerminal reports whether no further transition is possible.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusCancelled, TaskStatusIncomplete:
		return true
	}
	return false
}

// CanTransitionTo reports whether s may move to next.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch next {
	case TaskStatusActive:
		return s == TaskStatusPending
	case TaskStatusCompleted:
		return s == TaskStatusActive
	case TaskStatusCancelled, TaskStatusIncomplete:
		return s == TaskStatusPending || s == TaskStatusActive
	}
	return false
}

type Task struct {
	ID                     uint64     `gorm:"primarykey" json:"id"`
	DayPlanID              uint64     `gorm:"not null;index:idx_tasks_plan_status,priority:1" json:"day_plan_id"`
	Title                  string     `gorm:"type:varchar(100);not null" json:"title"`
	Description            string     `gorm:"type:text" json:"description"`
	ExpectedStart          string     `gorm:"type:varchar(5);not null" json:"expected_start"`
	ExpectedEnd            string     `gorm:"type:varchar(5);not null" json:"expected_end"`
	PlannedDurationMinutes *int       `json:"planned_duration_minutes"`
	ActualStart            *time.Time `json:"actual_start"`
	ActualEnd              *time.Time `json:"actual_end"`
	ActualDurationMinutes  *int       `json:"actual_duration_minutes"`
	Points                 int        `gorm:"not null" json:"points"`
	Status                 TaskStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_tasks_plan_status,priority:2" json:"status"`
	CancelReason           string     `gorm:"type:varchar(1000)" json:"cancel_reason,omitempty"`
	CancelComment          string     `gorm:"type:text" json:"cancel_comment,omitempty"`
	IncompleteReason       string     `gorm:"type:varchar(1000)" json:"incomplete_reason,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	// Relations
	DayPlan DayPlan `gorm:"foreignKey:DayPlanID" json:"-"`
}
