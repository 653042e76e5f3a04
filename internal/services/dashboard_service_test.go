package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/models"
)

type DashboardServiceTestSuite struct {
	serviceSuite
}

func TestDashboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

func (s *DashboardServiceTestSuite) TestDashboard() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	planned, actual := 60, 45
	done := task("a", 60, models.TaskStatusCompleted)
	done.PlannedDurationMinutes = &planned
	done.ActualDurationMinutes = &actual
	s.seedPlan(alice.ID, s.day(-1), done, task("b", 40, models.TaskStatusIncomplete))
	s.seedPlan(alice.ID, s.today, task("a", 30, models.TaskStatusCompleted), task("b", 70, models.TaskStatusPending))

	req, err := s.friends.SendRequest(s.ctx, bob.ID, "alice")
	s.Require().NoError(err)
	_, err = s.friends.Accept(s.ctx, alice.ID, req.ID)
	s.Require().NoError(err)

	d, err := s.dashboards.Dashboard(s.ctx, alice.ID, s.today)
	s.Require().NoError(err)

	s.Require().NotNil(d.Plan)
	s.Len(d.Plan.Tasks, 2)
	s.Equal(30, d.TodayScore)

	s.Require().NotNil(d.Yesterday)
	s.Equal(50, d.Yesterday.Percent)
	s.Equal(60, d.Yesterday.Score)
	s.Equal(60, d.Yesterday.PlannedMinutes)
	s.Equal(45, d.Yesterday.ActualMinutes)
	s.Equal(15, d.Yesterday.SavedMinutes)

	s.Require().Len(d.Heatmap, constants.HeatmapDays)
	last := d.Heatmap[len(d.Heatmap)-1]
	s.Equal(s.today, last.Date)
	s.Equal(30, last.Score)
	s.Equal(60, d.Heatmap[len(d.Heatmap)-2].Score)
	s.Equal(0, d.Heatmap[0].Score)

	s.Equal(0, d.Progress.Streak)
	s.False(d.TomorrowPlanned)
	s.True(d.CanPlanTomorrow)
	s.Require().Len(d.Friends, 1)
	s.Equal("bob", d.Friends[0].Username)
	// The accepted notification went to bob; alice's request notice was cleared.
	s.EqualValues(0, d.UnreadNotices)
}

func (s *DashboardServiceTestSuite) TestDashboardWithoutPlans() {
	alice := s.createUser("alice")
	s.seedPlan(alice.ID, s.day(1), task("a", 100, models.TaskStatusPending))

	d, err := s.dashboards.Dashboard(s.ctx, alice.ID, s.today)
	s.Require().NoError(err)
	s.Nil(d.Plan)
	s.Nil(d.Yesterday)
	s.True(d.TomorrowPlanned)
	s.False(d.CanPlanTomorrow)
	s.Empty(d.Friends)
}

func (s *DashboardServiceTestSuite) TestAnalytics() {
	alice := s.createUser("alice")
	s.seedPlan(alice.ID, s.today, task("a", 100, models.TaskStatusCompleted))
	s.seedPlan(alice.ID, s.day(-3), task("a", 50, models.TaskStatusCompleted))
	s.seedPlan(alice.ID, s.day(-20), task("a", 90, models.TaskStatusCompleted))
	s.seedPlan(alice.ID, s.day(-40), task("a", 100, models.TaskStatusCompleted))
	s.seedPlan(alice.ID, s.day(1), task("a", 100, models.TaskStatusPending))

	a, err := s.dashboards.Analytics(s.ctx, alice.ID, s.today)
	s.Require().NoError(err)

	s.Equal(2, a.Week.Plans)
	s.Equal(1, a.Week.QualifyingDays)
	s.Equal(75, a.Week.AverageScore)

	s.Equal(3, a.Month.Plans)
	s.Equal(2, a.Month.QualifyingDays)
	s.Equal(80, a.Month.AverageScore)
}

func (s *DashboardServiceTestSuite) TestExportCSV() {
	alice := s.createUser("alice")
	s.seedPlan(alice.ID, s.day(-10), task("a", 80, models.TaskStatusCompleted))
	s.seedPlan(alice.ID, s.day(-2), task("a", 40, models.TaskStatusCompleted))
	s.seedPlan(alice.ID, s.today, task("a", 100, models.TaskStatusCompleted))

	var buf bytes.Buffer
	s.Require().NoError(s.exports.WriteCSV(s.ctx, &buf, alice.ID, ExportWeek, s.today))
	s.Equal("date,score\n2026-10-14,40\n2026-10-16,100\n", buf.String())

	buf.Reset()
	s.Require().NoError(s.exports.WriteCSV(s.ctx, &buf, alice.ID, ExportDay, s.today))
	s.Equal("date,score\n2026-10-16,100\n", buf.String())

	buf.Reset()
	s.Require().NoError(s.exports.WriteCSV(s.ctx, &buf, alice.ID, ExportMonth, s.today))
	s.Equal("date,score\n2026-10-06,80\n2026-10-14,40\n2026-10-16,100\n", buf.String())
}

func (s *DashboardServiceTestSuite) TestParseExportPeriod() {
	p, err := ParseExportPeriod("")
	s.Require().NoError(err)
	s.Equal(ExportDay, p)

	p, err = ParseExportPeriod("Year")
	s.Require().NoError(err)
	s.Equal(ExportYear, p)
	s.Equal("year.csv", p.Filename())

	_, err = ParseExportPeriod("decade")
	s.ErrorIs(err, ErrInvalidExportPeriod)
}
