package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/autofix"
	"github.com/sketchforge/studio/backend/internal/console"
	"github.com/sketchforge/studio/backend/internal/infrastructure/config"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
	"github.com/sketchforge/studio/backend/internal/notify"
	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/ws"
)

type noopGenerator struct{}

func (noopGenerator) Generate(context.Context, autofix.GenerateRequest) (string, error) {
	return "", nil
}

type env struct {
	router        *gin.Engine
	files         *project.Store
	console       *console.Store
	notifications *notify.Center
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := &logging.Logger{Logger: zap.NewNop()}
	files := project.NewStore()
	consoleStore := console.NewStore()
	notifications := notify.NewCenter(time.Minute)
	fixes := autofix.NewController(autofix.DefaultOptions(), files, consoleStore,
		notifications, noopGenerator{}, nil, logger)
	relay := ws.NewHandler(files, consoleStore, fixes, logger, nil)

	limits := config.SandboxConfig{MaxProjectFiles: 5, MaxFileBytes: 1024}
	handlers := NewHandlers(files, consoleStore, notifications, fixes, relay, limits, logger)

	router := gin.New()
	router.GET("/health", handlers.Health)
	router.PUT("/project", handlers.ReplaceProject)
	router.GET("/project/files", handlers.ListFiles)
	router.GET("/project/file", handlers.GetFile)
	router.POST("/project/file", handlers.WriteFile)
	router.GET("/sandbox/document", handlers.GetDocument)
	router.POST("/sandbox/navigate", handlers.Navigate)
	router.POST("/sandbox/back", handlers.Back)
	router.GET("/sandbox/url", handlers.CurrentURL)
	router.GET("/console/logs", handlers.ListLogs)
	router.DELETE("/console/logs", handlers.ClearLogs)
	router.GET("/fixes/pending", handlers.PendingFix)
	router.GET("/notifications", handlers.ListNotifications)
	router.DELETE("/notifications/:id", handlers.DismissNotification)

	return &env{router: router, files: files, console: consoleStore, notifications: notifications}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestReplaceProject(t *testing.T) {
	e := newEnv(t)

	w := e.do("PUT", "/project", `{"files":{"src/App.tsx":"export default function App() { return null; }"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["incarnation"])
	assert.Equal(t, "src/App.tsx", body["entry"])
}

func TestReplaceProjectRejectsEmptyAndOversized(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusBadRequest, e.do("PUT", "/project", `{"files":{}}`).Code)
	assert.Equal(t, http.StatusBadRequest, e.do("PUT", "/project", `not json`).Code)

	big := strings.Repeat("x", 2048)
	w := e.do("PUT", "/project", `{"files":{"src/big.ts":"`+big+`"}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	manyFiles := make([]string, 0, 6)
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		manyFiles = append(manyFiles, `"src/`+n+`.ts":"x"`)
	}
	w = e.do("PUT", "/project", `{"files":{`+strings.Join(manyFiles, ",")+`}}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestWriteAndGetFile(t *testing.T) {
	e := newEnv(t)
	e.do("PUT", "/project", `{"files":{"src/App.tsx":"v1"}}`)

	w := e.do("POST", "/project/file", `{"path":"src/App.tsx","content":"v2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["incarnation"])

	w = e.do("GET", "/project/file?path=src/App.tsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v2", decodeBody(t, w)["content"])

	assert.Equal(t, http.StatusNotFound, e.do("GET", "/project/file?path=src/Nope.tsx", "").Code)
	assert.Equal(t, http.StatusBadRequest, e.do("GET", "/project/file", "").Code)
}

func TestGetDocument(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusNotFound, e.do("GET", "/sandbox/document", "").Code)

	e.do("PUT", "/project", `{"files":{"src/App.tsx":"export default function App() { return null; }"}}`)
	w := e.do("GET", "/sandbox/document", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	html, _ := body["html"].(string)
	assert.Contains(t, html, "importmap")
	assert.Contains(t, html, "<!DOCTYPE html>")
}

func TestNavigationEndpoints(t *testing.T) {
	e := newEnv(t)

	w := e.do("POST", "/sandbox/navigate", `{"url":"/about"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "/about", body["url"])
	assert.Equal(t, true, body["can_go_back"])

	w = e.do("POST", "/sandbox/back", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", decodeBody(t, w)["url"])

	w = e.do("GET", "/sandbox/url", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "/", body["url"])
	assert.Equal(t, true, body["can_go_forward"])
}

func TestConsoleLogEndpoints(t *testing.T) {
	e := newEnv(t)
	e.console.AppendLog(console.TypeError, "boom", time.Now())

	w := e.do("GET", "/console/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "boom")

	assert.Equal(t, http.StatusNoContent, e.do("DELETE", "/console/logs", "").Code)
	w = e.do("GET", "/console/logs", "")
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestPendingFixEmpty(t *testing.T) {
	e := newEnv(t)

	w := e.do("GET", "/fixes/pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["pending"])
}

func TestNotificationLifecycle(t *testing.T) {
	e := newEnv(t)
	n := e.notifications.Escalation("failed", "boom")

	w := e.do("GET", "/notifications", "")
	assert.Contains(t, w.Body.String(), n.ID)

	assert.Equal(t, http.StatusNoContent, e.do("DELETE", "/notifications/"+n.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, e.do("DELETE", "/notifications/"+n.ID, "").Code)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	w := e.do("GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}
