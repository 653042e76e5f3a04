package services

import (
	"context"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
)

// ProgressService derives streak, XP and rank. Nothing is cached: every
// call reads the plans again.
type ProgressService struct {
	store repository.Store
}

// NewProgressService creates a new ProgressService
func NewProgressService(store repository.Store) *ProgressService {
	return &ProgressService{store: store}
}

// Progress is a user's derived standing as of a calendar day.
type Progress struct {
	AsOf   time.Time    `json:"as_of"`
	Streak int          `json:"streak"`
	XP     int          `json:"xp"`
	Rank   scoring.Rank `json:"rank"`
}

// History loads a user's scoring history.
func (s *ProgressService) History(ctx context.Context, userID uint64) (*scoring.History, error) {
	histories, err := loadHistories(ctx, s.store, []uint64{userID})
	if err != nil {
		return nil, err
	}
	return histories[userID], nil
}

// Streak counts the consecutive qualifying days ending at asOf.
func (s *ProgressService) Streak(ctx context.Context, userID uint64, asOf time.Time) (int, error) {
	h, err := s.History(ctx, userID)
	if err != nil {
		return 0, err
	}
	return h.Streak(asOf), nil
}

// XP re-derives the user's experience total as of asOf.
func (s *ProgressService) XP(ctx context.Context, userID uint64, asOf time.Time) (int, error) {
	h, err := s.History(ctx, userID)
	if err != nil {
		return 0, err
	}
	return h.XP(asOf), nil
}

// Progress returns streak, XP and rank together.
func (s *ProgressService) Progress(ctx context.Context, userID uint64, asOf time.Time) (*Progress, error) {
	h, err := s.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progressOf(h, asOf), nil
}

func progressOf(h *scoring.History, asOf time.Time) *Progress {
	xp := h.XP(asOf)
	return &Progress{
		AsOf:   asOf,
		Streak: h.Streak(asOf),
		XP:     xp,
		Rank:   scoring.RankFor(xp),
	}
}
