package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMiddlewareRecordsRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/tasks/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks/12", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	out := scrape(t)
	assert.Contains(t, out, `daily_planner_http_requests_total{method="GET",path="/api/tasks/:id",status="204"} 1`)
	assert.NotContains(t, out, `path="/api/tasks/12"`)
}

func TestDomainCounters(t *testing.T) {
	RecordPlanCreated()
	RecordTaskTransition("completed")
	RecordScoreDrift(true)
	RecordLeaderboardBuild("friends", "weekly", 3*time.Millisecond)

	out := scrape(t)
	assert.Contains(t, out, "daily_planner_plans_created_total 1")
	assert.Contains(t, out, `daily_planner_tasks_transitions_total{status="completed"} 1`)
	assert.Contains(t, out, `daily_planner_scores_drift_total{repaired="true"} 1`)
	assert.Contains(t, out, `daily_planner_leaderboard_build_duration_seconds_count{period="weekly",scope="friends"} 1`)
}
