package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/daily-planner-api/internal/calendar"
	"github.com/yukikurage/daily-planner-api/internal/constants"
	"github.com/yukikurage/daily-planner-api/internal/database"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	today  time.Time
}

// session is a logged-in client.
type session struct {
	userID  uint64
	cookies []*http.Cookie
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.AutoMigrate(db))
	database.SetDB(db)

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	h := New(repository.NewStore(db), calendar.FixedClock(now), false)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	h.Register(r, nil)

	return &testEnv{
		t:      t,
		db:     db,
		router: r,
		today:  calendar.Day(now),
	}
}

func (e *testEnv) do(method, path string, body interface{}, s *session) *httptest.ResponseRecorder {
	e.t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s != nil {
		for _, c := range s.cookies {
			req.AddCookie(c)
		}
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login signs username up and logs in.
func (e *testEnv) login(username string) *session {
	e.t.Helper()
	creds := map[string]string{"username": username, "password": "supersecret"}

	w := e.do(http.MethodPost, "/api/auth/signup", creds, nil)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/auth/login", creds, nil)
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var user struct {
		ID uint64 `json:"id"`
	}
	decode(e.t, w, &user)
	return &session{userID: user.ID, cookies: w.Result().Cookies()}
}

// seedPlan stores a plan dated offset days from today with pending tasks.
func (e *testEnv) seedPlan(userID uint64, offset int, points ...int) *models.DayPlan {
	e.t.Helper()
	plan := &models.DayPlan{UserID: userID, Date: e.today.AddDate(0, 0, offset)}
	for _, p := range points {
		plan.Tasks = append(plan.Tasks, models.Task{
			Title:         "task",
			ExpectedStart: "09:00",
			ExpectedEnd:   "10:00",
			Points:        p,
			Status:        models.TaskStatusPending,
		})
	}
	require.NoError(e.t, e.db.Create(plan).Error)
	return plan
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apierrors.APIError
	decode(t, w, &body)
	return body.Code
}
