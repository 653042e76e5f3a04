package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/metrics"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task execution. Every status change recomputes the
// owning plan's final score in the same transaction.
type TaskService struct {
	store  repository.Store
	scores *ScoreService
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, scores *ScoreService) *TaskService {
	return &TaskService{
		store:  store,
		scores: scores,
	}
}

// TaskActionResult is the task after an action together with the plan's
// recomputed final score.
type TaskActionResult struct {
	Task       *models.Task `json:"task,omitempty"`
	PlanID     uint64       `json:"plan_id"`
	FinalScore int          `json:"final_score"`
}

// CancelTaskInput represents input for cancelling a task
type CancelTaskInput struct {
	Reason  string
	Comment string
}

// GetTask returns a task owned by the actor
func (s *TaskService) GetTask(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	task, err := s.store.Tasks().FindByID(ctx, taskID, "DayPlan")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.DayPlan.UserID != actorID {
		return nil, ErrTaskForbidden
	}
	return task, nil
}

// StartTask moves a pending task of today's plan to active at the given wall-clock time.
func (s *TaskService) StartTask(ctx context.Context, actorID, taskID uint64, at string, today time.Time) (*TaskActionResult, error) {
	clock, err := calendar.ParseWallClock(at)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTime, at)
	}

	return s.mutate(ctx, actorID, taskID, func(tx repository.Store, task *models.Task) (bool, error) {
		if err := ensureExecutionDay(task.DayPlan.Date, today); err != nil {
			return false, err
		}
		if !task.Status.CanTransitionTo(models.TaskStatusActive) {
			return false, transitionError(task.Status, "only pending tasks can be started")
		}

		startedAt := clock.On(task.DayPlan.Date)
		task.ActualStart = &startedAt
		task.Status = models.TaskStatusActive
		return false, nil
	})
}

// CompleteTask finishes an active task of today's plan and records the
// planned and actual durations. Points are never adjusted by timing.
func (s *TaskService) CompleteTask(ctx context.Context, actorID, taskID uint64, at string, today time.Time) (*TaskActionResult, error) {
	clock, err := calendar.ParseWallClock(at)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTime, at)
	}

	return s.mutate(ctx, actorID, taskID, func(tx repository.Store, task *models.Task) (bool, error) {
		if err := ensureExecutionDay(task.DayPlan.Date, today); err != nil {
			return false, err
		}
		if !task.Status.CanTransitionTo(models.TaskStatusCompleted) {
			if task.Status == models.TaskStatusPending {
				return false, transitionError(task.Status, "task must be started before it can be completed")
			}
			return false, transitionError(task.Status, "only active tasks can be completed")
		}

		planned, err := plannedMinutes(task)
		if err != nil {
			return false, err
		}

		endedAt := clock.On(task.DayPlan.Date)
		actual := 0
		if task.ActualStart != nil {
			actual = calendar.ElapsedMinutes(*task.ActualStart, endedAt)
		}

		task.ActualEnd = &endedAt
		task.PlannedDurationMinutes = &planned
		task.ActualDurationMinutes = &actual
		task.Status = models.TaskStatusCompleted
		return true, nil
	})
}

// CancelTask cancels a pending or active task. A reason is required.
func (s *TaskService) CancelTask(ctx context.Context, actorID, taskID uint64, input CancelTaskInput, today time.Time) (*TaskActionResult, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	return s.mutate(ctx, actorID, taskID, func(tx repository.Store, task *models.Task) (bool, error) {
		if err := ensureNotFrozen(task.DayPlan.Date, today); err != nil {
			return false, err
		}
		if !task.Status.CanTransitionTo(models.TaskStatusCancelled) {
			return false, transitionError(task.Status, "only pending or active tasks can be cancelled")
		}

		task.Status = models.TaskStatusCancelled
		task.CancelReason = reason
		task.CancelComment = strings.TrimSpace(input.Comment)
		return true, nil
	})
}

// MarkIncomplete closes a pending or active task as not done. A reason is required.
func (s *TaskService) MarkIncomplete(ctx context.Context, actorID, taskID uint64, reason string, today time.Time) (*TaskActionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	return s.mutate(ctx, actorID, taskID, func(tx repository.Store, task *models.Task) (bool, error) {
		if err := ensureNotFrozen(task.DayPlan.Date, today); err != nil {
			return false, err
		}
		if !task.Status.CanTransitionTo(models.TaskStatusIncomplete) {
			return false, transitionError(task.Status, "only pending or active tasks can be marked incomplete")
		}

		task.Status = models.TaskStatusIncomplete
		task.IncompleteReason = reason
		return true, nil
	})
}

// DeleteTask removes a pending task and recomputes the plan's score. The
// remaining tasks may then sum to less than the plan budget.
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID uint64, today time.Time) (*TaskActionResult, error) {
	result := &TaskActionResult{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := loadOwnedTask(ctx, tx, actorID, taskID)
		if err != nil {
			return err
		}
		if err := ensureNotFrozen(task.DayPlan.Date, today); err != nil {
			return err
		}
		if task.Status != models.TaskStatusPending {
			return transitionError(task.Status, "cannot delete started task")
		}

		if err := tx.Tasks().Delete(ctx, task.ID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		score, err := s.scores.Recompute(ctx, tx, task.DayPlanID)
		if err != nil {
			return err
		}
		result.PlanID = task.DayPlanID
		result.FinalScore = score
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordTaskTransition("deleted")
	return result, nil
}

// mutate loads the actor's task, applies change and saves it inside one
// transaction. When change reports that the score may have moved, the
// plan's final score is recomputed before commit.
func (s *TaskService) mutate(ctx context.Context, actorID, taskID uint64, change func(tx repository.Store, task *models.Task) (bool, error)) (*TaskActionResult, error) {
	result := &TaskActionResult{}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		task, err := loadOwnedTask(ctx, tx, actorID, taskID)
		if err != nil {
			return err
		}

		rescore, err := change(tx, task)
		if err != nil {
			return err
		}

		if err := tx.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		score := task.DayPlan.FinalScore
		if rescore {
			score, err = s.scores.Recompute(ctx, tx, task.DayPlanID)
			if err != nil {
				return err
			}
		}

		result.Task = task
		result.PlanID = task.DayPlanID
		result.FinalScore = score
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Task.DayPlan.FinalScore = result.FinalScore
	metrics.RecordTaskTransition(string(result.Task.Status))
	return result, nil
}

func loadOwnedTask(ctx context.Context, tx repository.Store, actorID, taskID uint64) (*models.Task, error) {
	task, err := tx.Tasks().FindByID(ctx, taskID, "DayPlan")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.DayPlan.UserID != actorID {
		return nil, ErrTaskForbidden
	}
	return task, nil
}

// ensureExecutionDay allows starting and completing only on the plan's own day.
func ensureExecutionDay(planDate, today time.Time) error {
	if err := ensureNotFrozen(planDate, today); err != nil {
		return err
	}
	if !calendar.Day(planDate).Equal(calendar.Day(today)) {
		return ErrTaskNotToday
	}
	return nil
}

// ensureNotFrozen rejects changes to plans of past days.
func ensureNotFrozen(planDate, today time.Time) error {
	if calendar.Day(planDate).Before(calendar.Day(today)) {
		return ErrPlanFrozen
	}
	return nil
}

func transitionError(from models.TaskStatus, reason string) error {
	return fmt.Errorf("%w: %s (task is %s)", ErrInvalidTransition, reason, from)
}

func plannedMinutes(task *models.Task) (int, error) {
	start, err := calendar.ParseWallClock(task.ExpectedStart)
	if err != nil {
		return 0, fmt.Errorf("task %d has an invalid expected start: %w", task.ID, err)
	}
	end, err := calendar.ParseWallClock(task.ExpectedEnd)
	if err != nil {
		return 0, fmt.Errorf("task %d has an invalid expected end: %w", task.ID, err)
	}
	return start.MinutesUntil(end), nil
}
