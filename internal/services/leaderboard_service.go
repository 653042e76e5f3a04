package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/metrics"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
)

// LeaderboardService ranks users over a period. Every board is rebuilt from
// the stored plans on each call.
type LeaderboardService struct {
	store          repository.Store
	extendedBadges bool
}

// NewLeaderboardService creates a new LeaderboardService. With
// extendedBadges set, boards also award the streak and finisher badges.
func NewLeaderboardService(store repository.Store, extendedBadges bool) *LeaderboardService {
	return &LeaderboardService{
		store:          store,
		extendedBadges: extendedBadges,
	}
}

// Leaderboard is a built board together with the scope it was built for.
type Leaderboard struct {
	Scope scoring.Scope `json:"scope"`
	scoring.Board
}

// Build ranks the requester's friends (including the requester) or every
// globally visible user over period, evaluated as of asOf.
func (s *LeaderboardService) Build(ctx context.Context, requesterID uint64, scope scoring.Scope, period scoring.Period, asOf time.Time) (*Leaderboard, error) {
	started := time.Now()

	users, err := s.candidates(ctx, requesterID, scope)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	histories, err := loadHistories(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]scoring.Candidate, len(users))
	for i, u := range users {
		candidates[i] = scoring.Candidate{
			UserID:   u.ID,
			Username: u.Username,
			History:  histories[u.ID],
		}
	}

	opts := scoring.BoardOptions{
		Period:         period,
		Today:          asOf,
		RequesterID:    requesterID,
		ExtendedBadges: s.extendedBadges,
	}
	if scope == scoring.ScopeGlobal {
		opts.Limit = scoring.GlobalBoardLimit
	}

	board := scoring.BuildBoard(candidates, opts)
	metrics.RecordLeaderboardBuild(string(scope), string(period), time.Since(started))

	return &Leaderboard{Scope: scope, Board: board}, nil
}

func (s *LeaderboardService) candidates(ctx context.Context, requesterID uint64, scope scoring.Scope) ([]models.User, error) {
	switch scope {
	case scoring.ScopeGlobal:
		users, err := s.store.Users().ListGlobal(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list global users: %w", err)
		}
		return users, nil
	case scoring.ScopeFriends:
		ids, err := friendIDs(ctx, s.store, requesterID)
		if err != nil {
			return nil, err
		}
		users, err := s.store.Users().FindByIDs(ctx, append(ids, requesterID))
		if err != nil {
			return nil, fmt.Errorf("failed to load friends: %w", err)
		}
		return users, nil
	}
	return nil, fmt.Errorf("%w: %q", scoring.ErrInvalidScope, scope)
}

// friendIDs returns the ids of every accepted friend of userID in either direction.
func friendIDs(ctx context.Context, store repository.Store, userID uint64) ([]uint64, error) {
	edges, err := store.Friends().ListAccepted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	ids := make([]uint64, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.Other(userID))
	}
	return ids, nil
}
