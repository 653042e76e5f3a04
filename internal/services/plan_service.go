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
	"github.com/yukikurage/daily-planner-api/internal/scoring"
	"gorm.io/gorm"
)

// PlanService handles day plan creation and lookup
type PlanService struct {
	store repository.Store
}

// NewPlanService creates a new PlanService
func NewPlanService(store repository.Store) *PlanService {
	return &PlanService{store: store}
}

// PlanTaskInput is one task of a new plan
type PlanTaskInput struct {
	Title       string
	Description string
	Start       string
	End         string
	Points      int
}

// CreatePlanInput represents input for creating a plan
type CreatePlanInput struct {
	UserID uint64
	// Date defaults to the day after today.
	Date  *time.Time
	Tasks []PlanTaskInput
}

// IsPlanLocked reports whether a plan dated planDate can no longer be
// created or edited: anything dated today or earlier is locked.
func IsPlanLocked(planDate, today time.Time) bool {
	return !calendar.Day(planDate).After(calendar.Day(today))
}

// CreatePlan validates the budget and stores tomorrow's plan with its tasks.
func (s *PlanService) CreatePlan(ctx context.Context, input CreatePlanInput, today time.Time) (*models.DayPlan, error) {
	tomorrow := calendar.AddDays(today, 1)
	planDate := tomorrow
	if input.Date != nil {
		planDate = calendar.Day(*input.Date)
	}
	if IsPlanLocked(planDate, today) {
		return nil, ErrPlanLocked
	}
	if !planDate.Equal(tomorrow) {
		return nil, ErrPlanDateOutOfRange
	}

	tasks, err := buildPlanTasks(input.Tasks)
	if err != nil {
		return nil, err
	}

	plan := &models.DayPlan{
		UserID: input.UserID,
		Date:   planDate,
		Tasks:  tasks,
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Plans().FindByUserAndDate(ctx, input.UserID, planDate); err == nil {
			return ErrPlanExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing plan: %w", err)
		}

		if err := tx.Plans().Create(ctx, plan); err != nil {
			// The pre-check can lose a race against a concurrent request.
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrPlanExists
			}
			return fmt.Errorf("failed to create plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordPlanCreated()
	return plan, nil
}

// buildPlanTasks validates task inputs and enforces the 100-point budget.
func buildPlanTasks(inputs []PlanTaskInput) ([]models.Task, error) {
	if len(inputs) == 0 {
		return nil, ErrNoTasks
	}

	tasks := make([]models.Task, 0, len(inputs))
	points := make([]int, 0, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w (task %d)", ErrTaskTitleRequired, i+1)
		}
		start, err := calendar.ParseWallClock(in.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d start %q", ErrInvalidTime, i+1, in.Start)
		}
		end, err := calendar.ParseWallClock(in.End)
		if err != nil {
			return nil, fmt.Errorf("%w: task %d end %q", ErrInvalidTime, i+1, in.End)
		}
		if in.Points < 0 {
			return nil, fmt.Errorf("%w (task %d)", ErrNegativePoints, i+1)
		}

		points = append(points, in.Points)
		tasks = append(tasks, models.Task{
			Title:         title,
			Description:   strings.TrimSpace(in.Description),
			ExpectedStart: start.String(),
			ExpectedEnd:   end.String(),
			Points:        in.Points,
			Status:        models.TaskStatusPending,
		})
	}

	if total := scoring.BudgetTotal(points); total != scoring.PlanBudget {
		return nil, fmt.Errorf("%w, got %d", ErrPlanBudget, total)
	}
	return tasks, nil
}

// GetPlan returns the user's plan for a day with its tasks.
func (s *PlanService) GetPlan(ctx context.Context, userID uint64, date time.Time) (*models.DayPlan, error) {
	plan, err := s.store.Plans().FindByUserAndDate(ctx, userID, date, "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

// ListScores returns the user's plans within [start, end] in date order.
func (s *PlanService) ListScores(ctx context.Context, userID uint64, start, end time.Time) ([]models.DayPlan, error) {
	plans, err := s.store.Plans().ListByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
