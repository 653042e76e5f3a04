// Package scheduler runs the background maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/daily-planner-api/internal/logging"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// Auditor recomputes stored plan scores and reports drift.
type Auditor interface {
	Audit(ctx context.Context, repair bool) ([]services.ScoreDrift, error)
}

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Entry
}

// New creates a Scheduler evaluating specs in loc. Overlapping runs of a
// job are skipped and panics are logged.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	log := logging.Scheduler()
	adapter := cronLogger{log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		log: log,
	}
}

// ScheduleAudit registers job under spec, a standard five-field cron
// expression or a descriptor such as "@daily". An empty spec registers
// nothing and reports false.
func (s *Scheduler) ScheduleAudit(spec string, job *ScoreAuditJob) (bool, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		s.log.Info("Score audit disabled")
		return false, nil
	}
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return false, fmt.Errorf("invalid score audit schedule %q: %w", spec, err)
	}
	s.log.WithField("schedule", spec).Info("Score audit scheduled")
	return true, nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ScoreAuditJob repairs plans whose stored final score drifted from their tasks.
type ScoreAuditJob struct {
	auditor Auditor
	timeout time.Duration
	log     *logrus.Entry
}

// NewScoreAuditJob creates a job bounded by timeout per run; zero means no bound.
func NewScoreAuditJob(auditor Auditor, timeout time.Duration) *ScoreAuditJob {
	return &ScoreAuditJob{
		auditor: auditor,
		timeout: timeout,
		log:     logging.Scheduler().WithField("job", "score_audit"),
	}
}

// Run implements cron.Job.
func (j *ScoreAuditJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	if _, err := j.RunOnce(ctx); err != nil {
		j.log.WithError(err).Error("Score audit failed")
	}
}

// RunOnce audits and repairs every plan, logging each drifted one.
func (j *ScoreAuditJob) RunOnce(ctx context.Context) ([]services.ScoreDrift, error) {
	started := time.Now()
	drifts, err := j.auditor.Audit(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, d := range drifts {
		j.log.WithFields(logrus.Fields{
			"plan_id":  d.PlanID,
			"user_id":  d.UserID,
			"stored":   d.Stored,
			"computed": d.Computed,
		}).Warn("Repaired drifted final score")
	}
	j.log.WithFields(logrus.Fields{
		"repaired":    len(drifts),
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("Score audit finished")
	return drifts, nil
}

// cronLogger adapts logrus to cron.Logger.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).WithError(err).Error(msg)
}

func fields(keysAndValues []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
