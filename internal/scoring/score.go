// Package scoring derives plan scores, streaks, XP, ranks and leaderboards
// from persisted plans and tasks. Everything here is pure: callers load the
// rows and pass in the calendar day the figures are evaluated at.
package scoring

import "github.com/yukikurage/daily-planner-api/internal/models"

const (
	// PlanBudget is the exact number of points a new plan must distribute.
	PlanBudget = 100
	// QualifyingScore is the minimum final score for a day to count
	// towards streaks, leaderboard days and the XP bonus.
	QualifyingScore = 70
)

// FinalScore sums the points of the completed tasks.
func FinalScore(tasks []models.Task) int {
	total := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			total += t.Points
		}
	}
	return total
}

// IsQualifying reports whether a final score counts as a successful day.
func IsQualifying(finalScore int) bool {
	return finalScore >= QualifyingScore
}

// BudgetTotal sums the planned points of a set of tasks.
func BudgetTotal(points []int) int {
	total := 0
	for _, p := range points {
		total += p
	}
	return total
}
