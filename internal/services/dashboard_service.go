package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
	"gorm.io/gorm"
)

// DashboardService assembles the read-only overview screens.
type DashboardService struct {
	store   repository.Store
	friends *FriendService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store repository.Store, friends *FriendService) *DashboardService {
	return &DashboardService{
		store:   store,
		friends: friends,
	}
}

// DaySummary condenses how a finished day went.
type DaySummary struct {
	Date           time.Time `json:"date"`
	Score          int       `json:"score"`
	Percent        int       `json:"percent"`
	PlannedMinutes int       `json:"planned_minutes"`
	ActualMinutes  int       `json:"actual_minutes"`
	SavedMinutes   int       `json:"saved_minutes"`
}

// HeatmapCell is one day of the score heatmap.
type HeatmapCell struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// Dashboard is the user's overview for today.
type Dashboard struct {
	Today           time.Time       `json:"today"`
	Plan            *models.DayPlan `json:"plan,omitempty"`
	TodayScore      int             `json:"today_score"`
	Yesterday       *DaySummary     `json:"yesterday,omitempty"`
	Heatmap         []HeatmapCell   `json:"heatmap"`
	Progress        *Progress       `json:"progress"`
	Friends         []FriendSummary `json:"friends"`
	TomorrowPlanned bool            `json:"tomorrow_planned"`
	CanPlanTomorrow bool            `json:"can_plan_tomorrow"`
	UnreadNotices   int64           `json:"unread_notifications"`
}

// Dashboard builds the overview as of today.
func (s *DashboardService) Dashboard(ctx context.Context, userID uint64, today time.Time) (*Dashboard, error) {
	today = calendar.Day(today)

	histories, err := loadHistories(ctx, s.store, []uint64{userID})
	if err != nil {
		return nil, err
	}
	h := histories[userID]

	d := &Dashboard{
		Today:    today,
		Heatmap:  heatmap(h, today, constants.HeatmapDays),
		Progress: progressOf(h, today),
	}

	plan, err := s.findPlan(ctx, userID, today, "Tasks")
	if err != nil {
		return nil, err
	}
	if plan != nil {
		d.Plan = plan
		d.TodayScore = scoring.FinalScore(plan.Tasks)
	}

	yesterday, err := s.findPlan(ctx, userID, calendar.AddDays(today, -1), "Tasks")
	if err != nil {
		return nil, err
	}
	if yesterday != nil {
		d.Yesterday = summarize(yesterday)
	}

	tomorrow := calendar.AddDays(today, 1)
	_, d.TomorrowPlanned = h.Lookup(tomorrow)
	d.CanPlanTomorrow = !d.TomorrowPlanned && !IsPlanLocked(tomorrow, today)

	d.Friends, err = s.friends.ListFriends(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	d.UnreadNotices, err = s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}
	return d, nil
}

func (s *DashboardService) findPlan(ctx context.Context, userID uint64, day time.Time, preload ...string) (*models.DayPlan, error) {
	plan, err := s.store.Plans().FindByUserAndDate(ctx, userID, day, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	return plan, nil
}

// summarize reports the completion percentage and time spent on a plan.
func summarize(plan *models.DayPlan) *DaySummary {
	sum := &DaySummary{Date: plan.Date, Score: plan.FinalScore}
	done := 0
	for _, t := range plan.Tasks {
		if t.Status == models.TaskStatusCompleted {
			done++
		}
		if t.PlannedDurationMinutes != nil {
			sum.PlannedMinutes += *t.PlannedDurationMinutes
		}
		if t.ActualDurationMinutes != nil {
			sum.ActualMinutes += *t.ActualDurationMinutes
		}
	}
	if len(plan.Tasks) > 0 {
		sum.Percent = done * 100 / len(plan.Tasks)
	}
	sum.SavedMinutes = sum.PlannedMinutes - sum.ActualMinutes
	return sum
}

// heatmap returns the final score of each of the last days days, oldest first.
func heatmap(h *scoring.History, today time.Time, days int) []HeatmapCell {
	cells := make([]HeatmapCell, days)
	for i := 0; i < days; i++ {
		day := calendar.AddDays(today, i-days+1)
		cells[i] = HeatmapCell{Date: day, Score: h.Score(day)}
	}
	return cells
}

// PeriodStats summarizes plans over a trailing window.
type PeriodStats struct {
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Plans          int       `json:"plans"`
	QualifyingDays int       `json:"qualifying_days"`
	AverageScore   int       `json:"average_score"`
}

// Analytics holds the trailing week and month statistics.
type Analytics struct {
	Week  PeriodStats `json:"week"`
	Month PeriodStats `json:"month"`
}

const (
	analyticsWeekDays  = 7
	analyticsMonthDays = 30
)

// Analytics summarizes the plans of the last 7 and 30 days up to today.
func (s *DashboardService) Analytics(ctx context.Context, userID uint64, today time.Time) (*Analytics, error) {
	histories, err := loadHistories(ctx, s.store, []uint64{userID})
	if err != nil {
		return nil, err
	}
	h := histories[userID]
	return &Analytics{
		Week:  periodStats(h, today, analyticsWeekDays),
		Month: periodStats(h, today, analyticsMonthDays),
	}, nil
}

func periodStats(h *scoring.History, today time.Time, lookback int) PeriodStats {
	today = calendar.Day(today)
	stats := PeriodStats{Start: calendar.AddDays(today, -lookback), End: today}
	total := 0
	for _, r := range h.Since(stats.Start, stats.End) {
		stats.Plans++
		total += r.FinalScore
		if scoring.IsQualifying(r.FinalScore) {
			stats.QualifyingDays++
		}
	}
	if stats.Plans > 0 {
		stats.AverageScore = total / stats.Plans
	}
	return stats
}
