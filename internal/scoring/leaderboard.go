package scoring

import (
	"sort"
	"time"
)

// GlobalBoardLimit caps the rows returned for the global scope.
const GlobalBoardLimit = 100

const (
	BadgeConsistencyKing = "Consistency King"
	BadgeFinisher        = "Finisher"
	// FinisherDays is the number of qualifying days in the period that earns BadgeFinisher.
	FinisherDays = 5
)

// Candidate is a user considered for a leaderboard together with their plans.
type Candidate struct {
	UserID   uint64
	Username string
	History  *History
}

type Entry struct {
	Position int      `json:"position"`
	UserID   uint64   `json:"user_id"`
	Username string   `json:"username"`
	Score    int      `json:"score"`
	Days     int      `json:"days"`
	Streak   int      `json:"streak"`
	XP       int      `json:"xp"`
	Rank     Rank     `json:"rank"`
	Badges   []string `json:"badges,omitempty"`
	IsMe     bool     `json:"is_me,omitempty"`
}

// BoardOptions controls how a board is built.
type BoardOptions struct {
	Period      Period
	Today       time.Time
	RequesterID uint64
	// Limit caps the returned rows; zero keeps every row.
	Limit int
	// ExtendedBadges also awards BadgeConsistencyKing and BadgeFinisher.
	ExtendedBadges bool
}

// Board is a sorted leaderboard. Me is set only when the requester ranks
// below Limit and was therefore cut from Entries.
type Board struct {
	Period  Period    `json:"period"`
	Range   DateRange `json:"range"`
	Entries []Entry   `json:"entries"`
	Me      *Entry    `json:"me,omitempty"`
	Total   int       `json:"total"`
}

// BuildBoard scores every candidate, sorts by (score, days, streak)
// descending and assigns positions and badges. Exact ties keep ascending
// user id order.
func BuildBoard(candidates []Candidate, opts BoardOptions) Board {
	rng := opts.Period.Range(opts.Today)

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UserID < ordered[j].UserID
	})

	entries := make([]Entry, 0, len(ordered))
	for _, c := range ordered {
		h := c.History
		if h == nil {
			h = NewHistory(nil)
		}
		score, days := h.Totals(rng)
		xp := h.XP(opts.Today)
		entries = append(entries, Entry{
			UserID:   c.UserID,
			Username: c.Username,
			Score:    score,
			Days:     days,
			Streak:   h.Streak(opts.Today),
			XP:       xp,
			Rank:     RankFor(xp),
			IsMe:     c.UserID == opts.RequesterID,
		})
	}

	SortEntries(entries)
	for i := range entries {
		entries[i].Position = i + 1
	}
	AwardBadges(entries, opts.Period, opts.ExtendedBadges)

	board := Board{Period: opts.Period, Range: rng, Entries: entries, Total: len(entries)}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		board.Entries = entries[:opts.Limit]
		for i := opts.Limit; i < len(entries); i++ {
			if entries[i].IsMe {
				me := entries[i]
				board.Me = &me
				break
			}
		}
	}
	return board
}

// SortEntries orders entries by score, then days, then streak, all
// descending. The sort is stable.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Days != b.Days {
			return a.Days > b.Days
		}
		return a.Streak > b.Streak
	})
}

// AwardBadges gives the first entry the period's champion badge. With
// extended set, every entry tied at the highest positive streak gets
// BadgeConsistencyKing and every entry with at least FinisherDays
// qualifying days gets BadgeFinisher.
func AwardBadges(entries []Entry, period Period, extended bool) {
	if len(entries) == 0 {
		return
	}
	entries[0].Badges = append(entries[0].Badges, period.ChampionBadge())
	if !extended {
		return
	}

	maxStreak := 0
	for _, e := range entries {
		if e.Streak > maxStreak {
			maxStreak = e.Streak
		}
	}
	for i := range entries {
		if maxStreak > 0 && entries[i].Streak == maxStreak {
			entries[i].Badges = append(entries[i].Badges, BadgeConsistencyKing)
		}
		if entries[i].Days >= FinisherDays {
			entries[i].Badges = append(entries[i].Badges, BadgeFinisher)
		}
	}
}
