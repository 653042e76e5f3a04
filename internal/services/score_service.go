package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/metrics"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"gorm.io/gorm"
)

// ScoreService keeps each plan's stored final score equal to the points of
// its completed tasks.
type ScoreService struct {
	store repository.Store
}

// NewScoreService creates a new ScoreService
func NewScoreService(store repository.Store) *ScoreService {
	return &ScoreService{store: store}
}

// Recompute derives the plan's final score from its completed tasks and
// stores it using tx, so it commits or rolls back with the caller's change.
func (s *ScoreService) Recompute(ctx context.Context, tx repository.Store, planID uint64) (int, error) {
	score, err := tx.Tasks().CompletedPoints(ctx, planID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum completed points: %w", err)
	}
	if err := tx.Plans().UpdateFinalScore(ctx, planID, score); err != nil {
		return 0, fmt.Errorf("failed to store final score: %w", err)
	}
	return score, nil
}

// RecomputePlan recomputes a single plan in its own transaction.
func (s *ScoreService) RecomputePlan(ctx context.Context, planID uint64) (int, error) {
	var score int
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Plans().FindByID(ctx, planID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return fmt.Errorf("failed to find plan: %w", err)
		}
		var err error
		score, err = s.Recompute(ctx, tx, planID)
		return err
	})
	return score, err
}

// ScoreDrift describes a plan whose stored score disagrees with its tasks.
type ScoreDrift struct {
	PlanID   uint64 `json:"plan_id"`
	UserID   uint64 `json:"user_id"`
	Stored   int    `json:"stored"`
	Computed int    `json:"computed"`
}

// Audit recomputes every plan from scratch and reports the ones whose stored
// score drifted. With repair set, drifted plans are rewritten in one
// transaction.
func (s *ScoreService) Audit(ctx context.Context, repair bool) ([]ScoreDrift, error) {
	drifts := make([]ScoreDrift, 0)

	err := s.store.Plans().InBatches(ctx, constants.ScoreAuditBatchSize, func(plans []models.DayPlan) error {
		ids := make([]uint64, len(plans))
		for i, p := range plans {
			ids[i] = p.ID
		}
		points, err := s.store.Tasks().CompletedPointsByPlan(ctx, ids)
		if err != nil {
			return err
		}
		for _, p := range plans {
			if computed := points[p.ID]; computed != p.FinalScore {
				drifts = append(drifts, ScoreDrift{
					PlanID:   p.ID,
					UserID:   p.UserID,
					Stored:   p.FinalScore,
					Computed: computed,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to audit scores: %w", err)
	}

	if repair && len(drifts) > 0 {
		err := s.store.Transaction(ctx, func(tx repository.Store) error {
			for _, d := range drifts {
				if _, err := s.Recompute(ctx, tx, d.PlanID); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to repair scores: %w", err)
		}
	}

	for range drifts {
		metrics.RecordScoreDrift(repair)
	}
	return drifts, nil
}
