package repository

import (
	"context"

	"github.com/yukikurage/daily-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByPlan lists a plan's tasks in schedule order
func (r *GormTaskRepository) ListByPlan(ctx context.Context, planID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("day_plan_id = ?", planID).
		Order("expected_start ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("DayPlan").Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, id).Error
}

// CompletedPoints sums the points of a plan's completed tasks
func (r *GormTaskRepository) CompletedPoints(ctx context.Context, planID uint64) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("COALESCE(SUM(points), 0)").
		Where("day_plan_id = ? AND status = ?", planID, models.TaskStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// CompletedPointsByPlan sums completed points for each of the given plans.
// Plans without completed tasks are absent from the result.
func (r *GormTaskRepository) CompletedPointsByPlan(ctx context.Context, planIDs []uint64) (map[uint64]int, error) {
	result := make(map[uint64]int, len(planIDs))
	if len(planIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		DayPlanID uint64
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("day_plan_id, SUM(points) AS total").
		Where("day_plan_id IN ? AND status = ?", planIDs, models.TaskStatusCompleted).
		Group("day_plan_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.DayPlanID] = int(row.Total)
	}
	return result, nil
}
