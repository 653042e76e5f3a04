package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/repository"
)

// ExportPeriod selects how far back an export reaches.
type ExportPeriod string

const (
	ExportDay   ExportPeriod = "day"
	ExportWeek  ExportPeriod = "week"
	ExportMonth ExportPeriod = "month"
	ExportYear  ExportPeriod = "year"
)

var exportLookback = map[ExportPeriod]int{
	ExportDay:   0,
	ExportWeek:  7,
	ExportMonth: 30,
	ExportYear:  365,
}

// ParseExportPeriod parses a period query value; empty means day.
func ParseExportPeriod(s string) (ExportPeriod, error) {
	p := ExportPeriod(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ExportDay, nil
	}
	if _, ok := exportLookback[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidExportPeriod, s)
	}
	return p, nil
}

// Filename is the attachment name of an export for p.
func (p ExportPeriod) Filename() string {
	return string(p) + ".csv"
}

// ExportService writes a user's daily scores as CSV.
type ExportService struct {
	store repository.Store
}

// NewExportService creates a new ExportService
func NewExportService(store repository.Store) *ExportService {
	return &ExportService{store: store}
}

// WriteCSV writes a "date,score" header followed by one row per plan dated
// within the period ending today, in date order.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, userID uint64, period ExportPeriod, today time.Time) error {
	lookback, ok := exportLookback[period]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidExportPeriod, period)
	}
	end := calendar.Day(today)
	start := calendar.AddDays(end, -lookback)

	plans, err := s.store.Plans().ListByUserBetween(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "score"}); err != nil {
		return err
	}
	for _, p := range plans {
		if err := cw.Write([]string{p.Date.Format(calendar.DateLayout), strconv.Itoa(p.FinalScore)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
