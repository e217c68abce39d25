package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sketchforge/studio/backend/internal/infrastructure/config"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
	router.GET("/test", handler)
	router.GET("/stream", handler)
	return router
}

func doGet(router *gin.Engine, path, remoteAddr, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSAllowsShellOrigins(t *testing.T) {
	router := newRouter(CORS(DefaultCORSConfig()))

	w := doGet(router, "/test", "", "http://localhost:5173")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	// Same-origin requests carry no Origin header and pass untouched.
	w = doGet(router, "/test", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	router := newRouter(CORS(DefaultCORSConfig()))

	w := doGet(router, "/test", "", "http://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newRouter(CORS(DefaultCORSConfig()))

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Contains(t, cfg.ShellOrigins, "http://localhost:3000")
	assert.Contains(t, cfg.ShellOrigins, "http://localhost:5173")
	assert.NotContains(t, cfg.ShellOrigins, "*")
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
}

func TestRateLimitPerClient(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping rate limit test in short mode")
	}
	router := newRouter(RateLimit(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	assert.Equal(t, http.StatusOK, doGet(router, "/test", "192.168.1.1:1234", "").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/test", "192.168.1.1:1234", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(router, "/test", "192.168.1.1:1234", "").Code)

	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, doGet(router, "/test", "192.168.1.2:1234", "").Code)
}

func TestRateLimitExemptsStream(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping rate limit test in short mode")
	}
	router := newRouter(RateLimit(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGet(router, "/stream", "192.168.1.1:1234", "").Code)
	}
}
