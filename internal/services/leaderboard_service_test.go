package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
)

type LeaderboardServiceTestSuite struct {
	serviceSuite
}

func TestLeaderboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeaderboardServiceTestSuite))
}

func (s *LeaderboardServiceTestSuite) befriend(a, b *models.User) {
	req, err := s.friends.SendRequest(s.ctx, a.ID, b.Username)
	s.Require().NoError(err)
	_, err = s.friends.Accept(s.ctx, b.ID, req.ID)
	s.Require().NoError(err)
}

func (s *LeaderboardServiceTestSuite) TestFriendsScope() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")
	carol := s.createUser("carol")
	stranger := s.createUser("stranger")

	s.befriend(alice, bob)
	s.befriend(carol, alice)

	s.seedPlan(alice.ID, s.today, task("a", 70, models.TaskStatusCompleted))
	s.seedPlan(bob.ID, s.today, task("a", 90, models.TaskStatusCompleted))
	s.seedPlan(stranger.ID, s.today, task("a", 100, models.TaskStatusCompleted))

	board, err := s.leaderboards.Build(s.ctx, alice.ID, scoring.ScopeFriends, scoring.PeriodDay, s.today)
	s.Require().NoError(err)
	s.Equal(scoring.ScopeFriends, board.Scope)
	s.Require().Len(board.Entries, 3)

	s.Equal("bob", board.Entries[0].Username)
	s.Equal([]string{"Daily Champion"}, board.Entries[0].Badges)
	s.Equal("alice", board.Entries[1].Username)
	s.True(board.Entries[1].IsMe)
	s.Equal("carol", board.Entries[2].Username)
	s.Equal(3, board.Entries[2].Position)
	s.Nil(board.Me)

	// Friendship is symmetric: bob sees alice but not carol.
	board, err = s.leaderboards.Build(s.ctx, bob.ID, scoring.ScopeFriends, scoring.PeriodWeek, s.today)
	s.Require().NoError(err)
	s.Len(board.Entries, 2)
}

func (s *LeaderboardServiceTestSuite) TestGlobalScopeHonoursVisibility() {
	alice := s.createUser("alice")
	hidden := s.createUser("hidden")
	_, err := s.auth.SetGlobalVisibility(s.ctx, hidden.ID, false)
	s.Require().NoError(err)

	board, err := s.leaderboards.Build(s.ctx, alice.ID, scoring.ScopeGlobal, scoring.PeriodWeek, s.today)
	s.Require().NoError(err)
	s.Require().Len(board.Entries, 1)
	s.Equal(alice.ID, board.Entries[0].UserID)
}

func (s *LeaderboardServiceTestSuite) TestGlobalTopHundredWithRequesterOutside() {
	var requester *models.User
	for i := 0; i < 150; i++ {
		user := s.createUser(fmt.Sprintf("user%03d", i))
		s.Require().NoError(s.db.Create(&models.DayPlan{
			UserID:     user.ID,
			Date:       s.today,
			FinalScore: 150 - i,
		}).Error)
		if i == 119 {
			requester = user
		}
	}

	board, err := s.leaderboards.Build(s.ctx, requester.ID, scoring.ScopeGlobal, scoring.PeriodDay, s.today)
	s.Require().NoError(err)
	s.Len(board.Entries, scoring.GlobalBoardLimit)
	s.Equal(150, board.Total)
	s.Require().NotNil(board.Me)
	s.Equal(120, board.Me.Position)
	s.Equal(requester.ID, board.Me.UserID)
	s.True(board.Me.IsMe)
	for _, e := range board.Entries {
		s.False(e.IsMe)
	}
}

func (s *LeaderboardServiceTestSuite) TestExtendedBadges() {
	alice := s.createUser("alice")
	for i := 0; i < 5; i++ {
		s.seedPlan(alice.ID, s.day(-i), task("a", 80, models.TaskStatusCompleted))
	}

	board, err := NewLeaderboardService(s.store, true).Build(s.ctx, alice.ID, scoring.ScopeFriends, scoring.PeriodMonth, s.today)
	s.Require().NoError(err)
	s.Require().Len(board.Entries, 1)
	s.ElementsMatch([]string{"Monthly Champion", scoring.BadgeConsistencyKing, scoring.BadgeFinisher}, board.Entries[0].Badges)
	s.Equal(5, board.Entries[0].Streak)
	s.Equal(400, board.Entries[0].Score)
}
