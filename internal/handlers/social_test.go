package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/models"
)

func TestFriendHandler_RequestFlow(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.login("alice")
	bob := env.login("bob")

	w := env.do(http.MethodPost, "/api/friends/requests", map[string]string{"username": "bob"}, alice)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var relation dto.FriendRelationDTO
	decode(t, w, &relation)
	assert.Equal(t, models.FriendStatusPending, relation.Status)

	w = env.do(http.MethodPost, "/api/friends/requests", map[string]string{"username": "alice"}, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/notifications", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	var notices dto.NotificationListResponse
	decode(t, w, &notices)
	require.Len(t, notices.Notifications, 1)
	assert.EqualValues(t, 1, notices.Total)
	assert.Equal(t, models.NotificationFriendRequest, notices.Notifications[0].Type)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/accept", relation.ID), nil, alice)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/friends/%d/accept", relation.ID), nil, bob)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/friends", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Friends []struct {
			Username string `json:"username"`
		} `json:"friends"`
	}
	decode(t, w, &list)
	require.Len(t, list.Friends, 1)
	assert.Equal(t, "bob", list.Friends[0].Username)

	w = env.do(http.MethodGet, "/api/notifications", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &notices)
	require.Len(t, notices.Notifications, 1)

	w = env.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", notices.Notifications[0].ID), nil, alice)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", notices.Notifications[0].ID), nil, bob)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, fmt.Sprintf("/api/friends/%d", relation.ID), nil, bob)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(http.MethodDelete, fmt.Sprintf("/api/friends/%d", relation.ID), nil, bob)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaderboardHandler(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.login("alice")
	bob := env.login("bob")

	plan := env.seedPlan(bob.userID, 0, 100)
	require.NoError(t, env.db.Model(&models.Task{}).Where("id = ?", plan.Tasks[0].ID).Update("status", models.TaskStatusCompleted).Error)
	require.NoError(t, env.db.Model(&models.DayPlan{}).Where("id = ?", plan.ID).Update("final_score", 100).Error)

	w := env.do(http.MethodGet, "/api/leaderboard", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var board struct {
		Scope   string `json:"scope"`
		Period  string `json:"period"`
		Entries []struct {
			Username string   `json:"username"`
			Position int      `json:"position"`
			Badges   []string `json:"badges"`
			IsMe     bool     `json:"is_me"`
		} `json:"entries"`
	}
	decode(t, w, &board)
	assert.Equal(t, "friends", board.Scope)
	assert.Equal(t, "week", board.Period)
	require.Len(t, board.Entries, 1)
	assert.True(t, board.Entries[0].IsMe)

	w = env.do(http.MethodGet, "/api/leaderboard?scope=global&period=day", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &board)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "bob", board.Entries[0].Username)
	assert.Equal(t, []string{"Daily Champion"}, board.Entries[0].Badges)

	w = env.do(http.MethodGet, "/api/leaderboard?scope=planet", nil, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidInput, errorCode(t, w))

	w = env.do(http.MethodGet, "/api/leaderboard?period=decade", nil, alice)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_Export(t *testing.T) {
	env := setupTestEnv(t)
	s := env.login("exporter")
	plan := env.seedPlan(s.userID, -1, 100)
	require.NoError(t, env.db.Model(&models.DayPlan{}).Where("id = ?", plan.ID).Update("final_score", 80).Error)

	w := env.do(http.MethodGet, "/api/export?period=week", nil, s)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=week.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "date,score\n2026-10-15,80\n", w.Body.String())

	w = env.do(http.MethodGet, "/api/export?period=decade", nil, s)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardHandler_Overview(t *testing.T) {
	env := setupTestEnv(t)
	s := env.login("viewer")
	env.seedPlan(s.userID, 0, 100)

	w := env.do(http.MethodGet, "/api/dashboard", nil, s)
	require.Equal(t, http.StatusOK, w.Code)
	var dashboard struct {
		Heatmap         []interface{} `json:"heatmap"`
		CanPlanTomorrow bool          `json:"can_plan_tomorrow"`
		Plan            *struct {
			ID uint64 `json:"id"`
		} `json:"plan"`
	}
	decode(t, w, &dashboard)
	assert.Len(t, dashboard.Heatmap, 30)
	assert.True(t, dashboard.CanPlanTomorrow)
	assert.NotNil(t, dashboard.Plan)

	w = env.do(http.MethodGet, "/api/analytics", nil, s)
	require.Equal(t, http.StatusOK, w.Code)
	var analytics struct {
		Week struct {
			Plans int `json:"plans"`
		} `json:"week"`
	}
	decode(t, w, &analytics)
	assert.Equal(t, 1, analytics.Week.Plans)
}
