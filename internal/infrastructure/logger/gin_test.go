package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func performRequest(t *testing.T, handler gin.HandlerFunc, status int) []observedEntry {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, logs := observedLogger()
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-http-1")
		c.Next()
	})
	router.Use(GinMiddleware(log))
	router.GET("/widgets", func(c *gin.Context) {
		handler(c)
		c.Status(status)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/widgets?page=2", nil)
	router.ServeHTTP(w, req)

	entries := make([]observedEntry, 0, logs.Len())
	for _, e := range logs.All() {
		entries = append(entries, observedEntry{level: e.Level, msg: e.Message, fields: e.ContextMap()})
	}
	return entries
}

type observedEntry struct {
	level  zapcore.Level
	msg    string
	fields map[string]interface{}
}

func TestGinMiddleware_LogsRequestFields(t *testing.T) {
	entries := performRequest(t, func(c *gin.Context) {}, http.StatusOK)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.InfoLevel, e.level)
	assert.Equal(t, "request completed", e.msg)
	assert.Equal(t, "req-http-1", e.fields["request_id"])
	assert.Equal(t, http.MethodGet, e.fields["method"])
	assert.Equal(t, "/widgets", e.fields["path"])
	assert.Equal(t, "page=2", e.fields["query"])
	assert.EqualValues(t, http.StatusOK, e.fields["status"])
}

func TestGinMiddleware_ClientErrorLogsWarn(t *testing.T) {
	entries := performRequest(t, func(c *gin.Context) {}, http.StatusNotFound)

	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].level)
}

func TestGinMiddleware_ServerErrorLogsError(t *testing.T) {
	entries := performRequest(t, func(c *gin.Context) {
		c.Error(assert.AnError)
	}, http.StatusInternalServerError)

	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].level)
	assert.Contains(t, entries[0].fields, "errors")
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	log, logs := observedLogger()
	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/boom", func(c *gin.Context) {
		panic("unreachable state")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "panic recovered", entry.Message)
	assert.Equal(t, "/boom", entry.ContextMap()["path"])
}

func TestGetGinLogger_ReturnsRequestScopedLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	log := zap.NewNop()
	c.Set("logger", log)

	assert.Same(t, log, GetGinLogger(c))
}

func TestGetGinLogger_FallsBackToNoop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.NotNil(t, GetGinLogger(c))
}
