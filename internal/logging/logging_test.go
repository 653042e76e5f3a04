package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &fields))
	return fields
}

func TestSetupLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("warn", "json", &buf)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	CLI().Info("hidden")
	assert.Empty(t, buf.String())

	CLI().Warn("shown")
	fields := lastLine(t, &buf)
	assert.Equal(t, "shown", fields["msg"])
	assert.Equal(t, "cli", fields["component"])

	Setup("nonsense", "text", &buf)
	assert.Equal(t, logrus.InfoLevel, Logger().GetLevel())
}

func TestRequestLoggerPropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", "json", &buf)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/api/plans/:id", func(c *gin.Context) {
		FromContext(c).Info("inside handler")
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/plans/5", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	fields := lastLine(t, &buf)
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "/api/plans/:id", fields["path"])
	assert.Equal(t, float64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "warning", fields["level"])
	assert.Contains(t, buf.String(), `"msg":"inside handler"`)
}

func TestRequestLoggerGeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", "json", &buf)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}
