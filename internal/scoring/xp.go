package scoring

import "time"

const (
	// QualifyingDayBonusXP is granted once per plan that reaches QualifyingScore.
	QualifyingDayBonusXP = 50
	// StreakXPPerDay is granted per day of the current streak.
	StreakXPPerDay = 5
)

// Rank is the title derived from a user's XP total.
type Rank string

const (
	RankLegend     Rank = "Legend"
	RankElite      Rank = "Elite"
	RankStrategist Rank = "Strategist"
	RankWarrior    Rank = "Warrior"
	RankBeginner   Rank = "Beginner"
)

// rankThresholds is ordered highest first; the first match wins.
var rankThresholds = []struct {
	minXP int
	rank  Rank
}{
	{3000, RankLegend},
	{1500, RankElite},
	{700, RankStrategist},
	{300, RankWarrior},
	{0, RankBeginner},
}

// RankFor maps an XP total to its rank.
func RankFor(xp int) Rank {
	for _, t := range rankThresholds {
		if xp >= t.minXP {
			return t.rank
		}
	}
	return RankBeginner
}

// TaskXP floors completed points to a multiple of ten.
func TaskXP(completedPoints int) int {
	if completedPoints <= 0 {
		return 0
	}
	return completedPoints / 10 * 10
}

// PlanXP is the XP one plan contributes, excluding the streak bonus.
func PlanXP(r DayRecord) int {
	xp := TaskXP(r.CompletedPoints)
	if IsQualifying(r.FinalScore) {
		xp += QualifyingDayBonusXP
	}
	return xp
}

// XP re-derives the user's experience from every recorded plan plus the
// current streak at asOf.
func (h *History) XP(asOf time.Time) int {
	xp := 0
	for _, r := range h.records {
		xp += PlanXP(r)
	}
	return xp + h.Streak(asOf)*StreakXPPerDay
}
