package repository

import (
	"context"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormPlanRepository is a GORM implementation of PlanRepository
type GormPlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &GormPlanRepository{db: db}
}

// Create inserts the plan together with its tasks
func (r *GormPlanRepository) Create(ctx context.Context, plan *models.DayPlan) error {
	plan.Date = calendar.Day(plan.Date)
	return translateError(r.db.WithContext(ctx).Create(plan).Error)
}

// FindByID finds a plan by ID with optional preloading
func (r *GormPlanRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.DayPlan, error) {
	var plan models.DayPlan
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p, orderTasks(p))
	}
	if err := query.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindByUserAndDate finds a user's plan for a calendar day
func (r *GormPlanRepository) FindByUserAndDate(ctx context.Context, userID uint64, date time.Time, preload ...string) (*models.DayPlan, error) {
	var plan models.DayPlan
	query := r.db.WithContext(ctx)
	for _, p := range preload {
		query = query.Preload(p, orderTasks(p))
	}
	if err := query.Where("user_id = ? AND date = ?", userID, calendar.Day(date)).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListByUsers lists every plan of the given users
func (r *GormPlanRepository) ListByUsers(ctx context.Context, userIDs []uint64) ([]models.DayPlan, error) {
	if len(userIDs) == 0 {
		return []models.DayPlan{}, nil
	}
	var plans []models.DayPlan
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, date ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// ListByUserBetween lists a user's plans within an inclusive date range
func (r *GormPlanRepository) ListByUserBetween(ctx context.Context, userID uint64, start, end time.Time) ([]models.DayPlan, error) {
	var plans []models.DayPlan
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, calendar.Day(start), calendar.Day(end)).
		Order("date ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// InBatches walks every plan in ID order
func (r *GormPlanRepository) InBatches(ctx context.Context, size int, fn func(plans []models.DayPlan) error) error {
	var batch []models.DayPlan
	result := r.db.WithContext(ctx).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	})
	return result.Error
}

// UpdateFinalScore stores a recomputed final score
func (r *GormPlanRepository) UpdateFinalScore(ctx context.Context, planID uint64, score int) error {
	return r.db.WithContext(ctx).Model(&models.DayPlan{}).Where("id = ?", planID).Update("final_score", score).Error
}

// orderTasks keeps preloaded tasks in schedule order
func orderTasks(preload string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if preload == "Tasks" {
			return db.Order("expected_start ASC, id ASC")
		}
		return db
	}
}
