package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
)

// loadHistories reads every plan of the given users together with the
// completed points of each plan. Users without plans get an empty history.
func loadHistories(ctx context.Context, store repository.Store, userIDs []uint64) (map[uint64]*scoring.History, error) {
	plans, err := store.Plans().ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	planIDs := make([]uint64, len(plans))
	for i, p := range plans {
		planIDs[i] = p.ID
	}
	points, err := store.Tasks().CompletedPointsByPlan(ctx, planIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed points: %w", err)
	}

	records := make(map[uint64][]scoring.DayRecord, len(userIDs))
	for _, p := range plans {
		records[p.UserID] = append(records[p.UserID], scoring.DayRecord{
			PlanID:          p.ID,
			Date:            p.Date,
			FinalScore:      p.FinalScore,
			CompletedPoints: points[p.ID],
		})
	}

	histories := make(map[uint64]*scoring.History, len(userIDs))
	for _, id := range userIDs {
		histories[id] = scoring.NewHistory(records[id])
	}
	return histories, nil
}
