package models

import "time"

// DayPlan is a user's 100-point task budget for one calendar day.
// FinalScore is derived from the plan's completed tasks and is rewritten
// whenever one of them changes status.
type DayPlan struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	UserID     uint64    `gorm:"not null;uniqueIndex:idx_day_plans_user_date,priority:1" json:"user_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_day_plans_user_date,priority:2" json:"date"`
	FinalScore int       `gorm:"not null;default:0" json:"final_score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Tasks []Task `gorm:"foreignKey:DayPlanID" json:"tasks,omitempty"`
}
