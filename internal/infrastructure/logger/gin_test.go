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
	"go.uber.org/zap/zaptest/observer"
)

func findRequestLog(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	logs := recorded.All()
	for i := range logs {
		if logs[i].Message == "request completed" {
			return &logs[i]
		}
	}
	t.Fatal("no request log recorded")
	return nil
}

func TestGinMiddleware_LogsCompletedRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/purchases", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/purchases", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/purchases", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
	assert.Contains(t, fields, "user_agent")
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-5524")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/inventory", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	assert.Equal(t, "req-5524", entry.ContextMap()["request_id"])
}

func TestGinMiddleware_ClientErrorLogsAsWarning(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.WarnLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.POST("/api/v1/purchases", func(c *gin.Context) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{"code": "ERR_CATEGORY_MISMATCH"}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/purchases", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
}

func TestGinMiddleware_ServerErrorLogsAsError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/purchases", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"code": "ERR_INTERNAL"}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/purchases", nil)
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
}

func TestGinMiddleware_IncludesQueryString(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/purchases", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/purchases?issued_from=2026-01-01&issued_to=2026-01-31", nil)
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	query, ok := entry.ContextMap()["query"].(string)
	require.True(t, ok, "query should be logged for filtered requests")
	assert.Contains(t, query, "issued_from=2026-01-01")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/api/v1/purchases", func(c *gin.Context) {
		panic("unexpected nil ledger record")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/purchases", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "panic recovered", logs[0].Message)
	assert.Equal(t, "unexpected nil ledger record", logs[0].ContextMap()["error"])
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, _ := observer.New(zapcore.InfoLevel)
	var fromContext *zap.Logger

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/items", func(c *gin.Context) {
		fromContext = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/items", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, fromContext)
}

func TestGetGinLogger_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var fromContext *zap.Logger

	router := gin.New()
	router.GET("/api/v1/items", func(c *gin.Context) {
		fromContext = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"data": []any{}})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/items", nil)
	router.ServeHTTP(w, req)

	require.NotNil(t, fromContext)
	assert.NotPanics(t, func() {
		fromContext.Info("standalone handler")
	})
}
