package scoring

import (
	"sort"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
)

// DayRecord is the scoring view of one persisted plan.
type DayRecord struct {
	PlanID          uint64
	Date            time.Time
	FinalScore      int
	CompletedPoints int
}

// History indexes a single user's plans by calendar day.
type History struct {
	records []DayRecord
	byDate  map[string]DayRecord
}

// NewHistory builds a History. Records are kept in ascending date order.
func NewHistory(records []DayRecord) *History {
	h := &History{
		records: make([]DayRecord, 0, len(records)),
		byDate:  make(map[string]DayRecord, len(records)),
	}
	for _, r := range records {
		r.Date = calendar.Day(r.Date)
		h.records = append(h.records, r)
		h.byDate[dayKey(r.Date)] = r
	}
	sort.SliceStable(h.records, func(i, j int) bool {
		return h.records[i].Date.Before(h.records[j].Date)
	})
	return h
}

func dayKey(t time.Time) string {
	return t.Format(calendar.DateLayout)
}

// Records returns the plans in ascending date order.
func (h *History) Records() []DayRecord {
	return h.records
}

// Lookup returns the plan recorded for day, if any.
func (h *History) Lookup(day time.Time) (DayRecord, bool) {
	r, ok := h.byDate[dayKey(calendar.Day(day))]
	return r, ok
}

// Score returns the final score of day, 0 when there is no plan.
func (h *History) Score(day time.Time) int {
	r, _ := h.Lookup(day)
	return r.FinalScore
}

// Streak counts consecutive qualifying days ending at asOf. The walk stops at
// the first day with no plan or a final score below QualifyingScore, so it is
// bounded by the number of recorded plans.
func (h *History) Streak(asOf time.Time) int {
	streak := 0
	day := calendar.Day(asOf)
	for {
		r, ok := h.byDate[dayKey(day)]
		if !ok || !IsQualifying(r.FinalScore) {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// Totals sums final scores in r and counts the qualifying days among them.
func (h *History) Totals(r DateRange) (score, days int) {
	for _, rec := range h.records {
		if !r.Contains(rec.Date) {
			continue
		}
		score += rec.FinalScore
		if IsQualifying(rec.FinalScore) {
			days++
		}
	}
	return score, days
}

// Since returns the records dated on or after start and not after end.
func (h *History) Since(start, end time.Time) []DayRecord {
	r := DateRange{Start: calendar.Day(start), End: calendar.Day(end)}
	out := make([]DayRecord, 0)
	for _, rec := range h.records {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
