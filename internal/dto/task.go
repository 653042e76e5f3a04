package dto

import (
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	ShowGlobal bool   `json:"show_global"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                     uint64            `json:"id"`
	PlanID                 uint64            `json:"plan_id"`
	Title                  string            `json:"title"`
	Description            string            `json:"description"`
	ExpectedStart          string            `json:"expected_start"`
	ExpectedEnd            string            `json:"expected_end"`
	Points                 int               `json:"points"`
	Status                 models.TaskStatus `json:"status"`
	ActualStart            *string           `json:"actual_start,omitempty"`
	ActualEnd              *string           `json:"actual_end,omitempty"`
	PlannedDurationMinutes *int              `json:"planned_duration_minutes,omitempty"`
	ActualDurationMinutes  *int              `json:"actual_duration_minutes,omitempty"`
	CancelReason           string            `json:"cancel_reason,omitempty"`
	CancelComment          string            `json:"cancel_comment,omitempty"`
	IncompleteReason       string            `json:"incomplete_reason,omitempty"`
}

// PlanDTO represents a day plan in API responses
type PlanDTO struct {
	ID         uint64    `json:"id"`
	Date       string    `json:"date"`
	FinalScore int       `json:"final_score"`
	Locked     bool      `json:"locked"`
	Tasks      []TaskDTO `json:"tasks"`
}

// TaskActionResponse is returned by every task action
type TaskActionResponse struct {
	Task       *TaskDTO `json:"task,omitempty"`
	PlanID     uint64   `json:"plan_id"`
	FinalScore int      `json:"final_score"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		ShowGlobal: user.ShowGlobal,
	}
}

// ToTaskDTO converts a Task model to TaskDTO. Actual times are reported as HH:MM.
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:                     task.ID,
		PlanID:                 task.DayPlanID,
		Title:                  task.Title,
		Description:            task.Description,
		ExpectedStart:          task.ExpectedStart,
		ExpectedEnd:            task.ExpectedEnd,
		Points:                 task.Points,
		Status:                 task.Status,
		ActualStart:            wallClock(task.ActualStart),
		ActualEnd:              wallClock(task.ActualEnd),
		PlannedDurationMinutes: task.PlannedDurationMinutes,
		ActualDurationMinutes:  task.ActualDurationMinutes,
		CancelReason:           task.CancelReason,
		CancelComment:          task.CancelComment,
		IncompleteReason:       task.IncompleteReason,
	}
}

// ToPlanDTO converts a DayPlan with its tasks. locked reports whether the
// plan can no longer be edited.
func ToPlanDTO(plan models.DayPlan, locked bool) PlanDTO {
	tasks := make([]TaskDTO, len(plan.Tasks))
	for i, t := range plan.Tasks {
		tasks[i] = ToTaskDTO(t)
	}
	return PlanDTO{
		ID:         plan.ID,
		Date:       plan.Date.Format(calendar.DateLayout),
		FinalScore: plan.FinalScore,
		Locked:     locked,
		Tasks:      tasks,
	}
}

func wallClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}
