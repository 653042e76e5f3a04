package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/scoring"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// serviceSuite wires every service against a fresh in-memory database.
type serviceSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	store repository.Store
	today time.Time

	auth         *AuthService
	plans        *PlanService
	scores       *ScoreService
	tasks        *TaskService
	progress     *ProgressService
	friends      *FriendService
	leaderboards *LeaderboardService
	notices      *NotificationService
	dashboards   *DashboardService
	exports      *ExportService
}

func (s *serviceSuite) SetupTest() {
	var err error

	s.db, err = database.Open(sqlite.Open(":memory:"))
	s.Require().NoError(err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(database.AutoMigrate(s.db))

	s.ctx = context.Background()
	s.today = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	s.store = repository.NewStore(s.db)

	s.auth = NewAuthService(s.store)
	s.plans = NewPlanService(s.store)
	s.scores = NewScoreService(s.store)
	s.tasks = NewTaskService(s.store, s.scores)
	s.progress = NewProgressService(s.store)
	s.friends = NewFriendService(s.store)
	s.leaderboards = NewLeaderboardService(s.store, false)
	s.notices = NewNotificationService(s.store)
	s.dashboards = NewDashboardService(s.store, s.friends)
	s.exports = NewExportService(s.store)
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) createUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		ShowGlobal:   true,
	}
	s.Require().NoError(s.db.Create(user).Error)
	return user
}

// seedPlan stores a plan with its tasks directly, with a final score
// consistent with the completed tasks.
func (s *serviceSuite) seedPlan(userID uint64, day time.Time, tasks ...models.Task) *models.DayPlan {
	plan := &models.DayPlan{
		UserID:     userID,
		Date:       day,
		FinalScore: scoring.FinalScore(tasks),
		Tasks:      tasks,
	}
	s.Require().NoError(s.db.Create(plan).Error)
	return plan
}

func task(title string, points int, status models.TaskStatus) models.Task {
	return models.Task{
		Title:         title,
		ExpectedStart: "09:00",
		ExpectedEnd:   "10:00",
		Points:        points,
		Status:        status,
	}
}

func (s *serviceSuite) day(offset int) time.Time {
	return s.today.AddDate(0, 0, offset)
}

// stalePlans hides existing plans from the pre-check so the insert has to
// rely on the unique index.
type stalePlans struct {
	repository.PlanRepository
}

func (p stalePlans) FindByUserAndDate(ctx context.Context, userID uint64, date time.Time, preload ...string) (*models.DayPlan, error) {
	return nil, gorm.ErrRecordNotFound
}

type staleStore struct {
	repository.Store
}

func (s staleStore) Plans() repository.PlanRepository {
	return stalePlans{s.Store.Plans()}
}

func (s staleStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(staleStore{tx})
	})
}
