package database

import (
	"fmt"

	"github.com/yukikurage/daily-planner-api/internal/logging"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"gorm.io/gorm"
)

// requiredIndexes lists the indexes the scoring queries depend on. They are
// declared on the models; EnsureIndexes repairs databases created before a
// tag was added.
var requiredIndexes = []struct {
	model interface{}
	name  string
}{
	// One plan per user per day, also serves streak and range lookups
	{&models.DayPlan{}, "idx_day_plans_user_date"},

	// Completed-points aggregation
	{&models.Task{}, "idx_tasks_plan_status"},

	// Canonical friend pair
	{&models.Friend{}, "idx_friends_pair"},

	// Unread notification listing
	{&models.Notification{}, "idx_notifications_user_read"},
}

// EnsureIndexes creates any missing required index
func EnsureIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range requiredIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		logging.DB().WithField("index", idx.name).Info("Created index")
	}
	return nil
}

// MigrateDatabase runs all database migrations
func MigrateDatabase(db *gorm.DB) error {
	logging.DB().Info("Running database migrations...")
	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := EnsureIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	logging.DB().Info("Database migrations completed")
	return nil
}
