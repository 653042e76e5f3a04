package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
)

type TaskServiceTestSuite struct {
	serviceSuite
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

// planForToday stores a plan dated today with one pending task per points value.
func (s *TaskServiceTestSuite) planForToday(userID uint64, points ...int) *models.DayPlan {
	tasks := make([]models.Task, len(points))
	for i, p := range points {
		tasks[i] = task("task", p, models.TaskStatusPending)
	}
	return s.seedPlan(userID, s.today, tasks...)
}

func (s *TaskServiceTestSuite) TestFortyThirtyThirtyScenario() {
	user := s.createUser("alice")

	// Planned the evening before.
	_, err := s.plans.CreatePlan(s.ctx, planInput(user.ID, 40, 30, 30), s.day(-1))
	s.Require().NoError(err)
	plan, err := s.plans.GetPlan(s.ctx, user.ID, s.today)
	s.Require().NoError(err)
	a, b, c := plan.Tasks[0], plan.Tasks[1], plan.Tasks[2]

	_, err = s.tasks.StartTask(s.ctx, user.ID, a.ID, "09:00", s.today)
	s.Require().NoError(err)
	res, err := s.tasks.CompleteTask(s.ctx, user.ID, a.ID, "10:00", s.today)
	s.Require().NoError(err)
	s.Equal(40, res.FinalScore)

	_, err = s.tasks.StartTask(s.ctx, user.ID, b.ID, "10:00", s.today)
	s.Require().NoError(err)
	res, err = s.tasks.CompleteTask(s.ctx, user.ID, b.ID, "11:00", s.today)
	s.Require().NoError(err)
	s.Equal(70, res.FinalScore)

	res, err = s.tasks.CancelTask(s.ctx, user.ID, c.ID, CancelTaskInput{Reason: "meeting ran long"}, s.today)
	s.Require().NoError(err)
	s.Equal(70, res.FinalScore)
	s.Equal(models.TaskStatusCancelled, res.Task.Status)
	s.Equal("meeting ran long", res.Task.CancelReason)

	stored, err := s.plans.GetPlan(s.ctx, user.ID, s.today)
	s.Require().NoError(err)
	s.Equal(70, stored.FinalScore)
	s.True(scoring.IsQualifying(stored.FinalScore))

	progress, err := s.progress.Progress(s.ctx, user.ID, s.today)
	s.Require().NoError(err)
	s.Equal(1, progress.Streak)
	// floor10(70) + qualifying bonus + one streak day
	s.Equal(70+50+5, progress.XP)
	s.Equal(scoring.RankBeginner, progress.Rank)
}

func (s *TaskServiceTestSuite) TestLateCompletionRecordsDurationsOnly() {
	user := s.createUser("alice")
	plan := s.planForToday(user.ID, 100)
	id := plan.Tasks[0].ID

	_, err := s.tasks.StartTask(s.ctx, user.ID, id, "09:30", s.today)
	s.Require().NoError(err)
	res, err := s.tasks.CompleteTask(s.ctx, user.ID, id, "11:15", s.today)
	s.Require().NoError(err)

	s.Require().NotNil(res.Task.PlannedDurationMinutes)
	s.Require().NotNil(res.Task.ActualDurationMinutes)
	s.Equal(60, *res.Task.PlannedDurationMinutes)
	s.Equal(105, *res.Task.ActualDurationMinutes)
	s.Equal(100, res.Task.Points)
	s.Equal(100, res.FinalScore)
}

func (s *TaskServiceTestSuite) TestOvernightDurations() {
	user := s.createUser("alice")
	plan := s.seedPlan(user.ID, s.today, models.Task{
		Title:         "night shift",
		ExpectedStart: "23:00",
		ExpectedEnd:   "01:00",
		Points:        100,
		Status:        models.TaskStatusPending,
	})
	id := plan.Tasks[0].ID

	_, err := s.tasks.StartTask(s.ctx, user.ID, id, "23:30", s.today)
	s.Require().NoError(err)
	res, err := s.tasks.CompleteTask(s.ctx, user.ID, id, "00:15", s.today)
	s.Require().NoError(err)

	s.Equal(120, *res.Task.PlannedDurationMinutes)
	s.Equal(45, *res.Task.ActualDurationMinutes)
}

func (s *TaskServiceTestSuite) TestStateMachineViolations() {
	user := s.createUser("alice")
	plan := s.planForToday(user.ID, 50, 30, 20)
	first, second, third := plan.Tasks[0].ID, plan.Tasks[1].ID, plan.Tasks[2].ID

	_, err := s.tasks.CompleteTask(s.ctx, user.ID, first, "10:00", s.today)
	s.ErrorIs(err, ErrInvalidTransition)
	s.Contains(err.Error(), "must be started")

	_, err = s.tasks.StartTask(s.ctx, user.ID, first, "09:00", s.today)
	s.Require().NoError(err)
	_, err = s.tasks.StartTask(s.ctx, user.ID, first, "09:05", s.today)
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.tasks.DeleteTask(s.ctx, user.ID, first, s.today)
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.tasks.CompleteTask(s.ctx, user.ID, first, "10:00", s.today)
	s.Require().NoError(err)
	_, err = s.tasks.CancelTask(s.ctx, user.ID, first, CancelTaskInput{Reason: "late"}, s.today)
	s.ErrorIs(err, ErrInvalidTransition)
	_, err = s.tasks.MarkIncomplete(s.ctx, user.ID, first, "late", s.today)
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.tasks.CancelTask(s.ctx, user.ID, second, CancelTaskInput{Reason: " "}, s.today)
	s.ErrorIs(err, ErrReasonRequired)
	_, err = s.tasks.MarkIncomplete(s.ctx, user.ID, second, "", s.today)
	s.ErrorIs(err, ErrReasonRequired)

	res, err := s.tasks.MarkIncomplete(s.ctx, user.ID, second, "ran out of time", s.today)
	s.Require().NoError(err)
	s.Equal(models.TaskStatusIncomplete, res.Task.Status)
	s.Equal(50, res.FinalScore)

	_, err = s.tasks.StartTask(s.ctx, user.ID, third, "25:00", s.today)
	s.ErrorIs(err, ErrInvalidTime)
}

func (s *TaskServiceTestSuite) TestDeletePendingTaskRecomputes() {
	user := s.createUser("alice")
	plan := s.planForToday(user.ID, 60, 40)

	res, err := s.tasks.DeleteTask(s.ctx, user.ID, plan.Tasks[1].ID, s.today)
	s.Require().NoError(err)
	s.Equal(plan.ID, res.PlanID)
	s.Equal(0, res.FinalScore)

	_, err = s.tasks.GetTask(s.ctx, user.ID, plan.Tasks[1].ID)
	s.ErrorIs(err, ErrTaskNotFound)

	// The remaining tasks no longer add up to the budget; that is allowed.
	remaining, err := s.store.Tasks().ListByPlan(s.ctx, plan.ID)
	s.Require().NoError(err)
	s.Len(remaining, 1)
}

func (s *TaskServiceTestSuite) TestOwnershipAndDates() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	today := s.planForToday(alice.ID, 100)
	_, err := s.tasks.StartTask(s.ctx, bob.ID, today.Tasks[0].ID, "09:00", s.today)
	s.ErrorIs(err, ErrTaskForbidden)
	_, err = s.tasks.StartTask(s.ctx, alice.ID, 9999, "09:00", s.today)
	s.ErrorIs(err, ErrTaskNotFound)

	past := s.seedPlan(alice.ID, s.day(-1), task("old", 100, models.TaskStatusPending))
	_, err = s.tasks.CancelTask(s.ctx, alice.ID, past.Tasks[0].ID, CancelTaskInput{Reason: "too late"}, s.today)
	s.ErrorIs(err, ErrPlanFrozen)
	_, err = s.tasks.StartTask(s.ctx, alice.ID, past.Tasks[0].ID, "09:00", s.today)
	s.ErrorIs(err, ErrPlanFrozen)

	future := s.seedPlan(alice.ID, s.day(1), task("next", 60, models.TaskStatusPending), task("next", 40, models.TaskStatusPending))
	_, err = s.tasks.StartTask(s.ctx, alice.ID, future.Tasks[0].ID, "09:00", s.today)
	s.ErrorIs(err, ErrTaskNotToday)
	_, err = s.tasks.CancelTask(s.ctx, alice.ID, future.Tasks[0].ID, CancelTaskInput{Reason: "plans changed"}, s.today)
	s.NoError(err)
	_, err = s.tasks.DeleteTask(s.ctx, alice.ID, future.Tasks[1].ID, s.today)
	s.NoError(err)
}

func (s *TaskServiceTestSuite) TestAuditFindsAndRepairsDrift() {
	user := s.createUser("alice")
	good := s.seedPlan(user.ID, s.day(-2), task("a", 100, models.TaskStatusCompleted))
	bad := s.seedPlan(user.ID, s.day(-1), task("a", 70, models.TaskStatusCompleted), task("b", 30, models.TaskStatusPending))
	s.Require().NoError(s.db.Model(&models.DayPlan{}).Where("id = ?", bad.ID).Update("final_score", 100).Error)

	drifts, err := s.scores.Audit(s.ctx, false)
	s.Require().NoError(err)
	s.Require().Len(drifts, 1)
	s.Equal(ScoreDrift{PlanID: bad.ID, UserID: user.ID, Stored: 100, Computed: 70}, drifts[0])

	stored, err := s.plans.GetPlan(s.ctx, user.ID, s.day(-1))
	s.Require().NoError(err)
	s.Equal(100, stored.FinalScore)

	drifts, err = s.scores.Audit(s.ctx, true)
	s.Require().NoError(err)
	s.Len(drifts, 1)

	stored, err = s.plans.GetPlan(s.ctx, user.ID, s.day(-1))
	s.Require().NoError(err)
	s.Equal(70, stored.FinalScore)

	drifts, err = s.scores.Audit(s.ctx, false)
	s.Require().NoError(err)
	s.Empty(drifts)

	score, err := s.scores.RecomputePlan(s.ctx, good.ID)
	s.Require().NoError(err)
	s.Equal(100, score)

	_, err = s.scores.RecomputePlan(s.ctx, 9999)
	s.ErrorIs(err, ErrPlanNotFound)
}
