// Package http exposes the host's REST surface: project uploads, sandbox
// document fetches, telemetry queries, and the fix confirmation endpoints.
// Everything real-time goes over the WebSocket instead.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sketchforge/studio/backend/internal/autofix"
	"github.com/sketchforge/studio/backend/internal/console"
	"github.com/sketchforge/studio/backend/internal/infrastructure/config"
	"github.com/sketchforge/studio/backend/internal/infrastructure/logging"
	"github.com/sketchforge/studio/backend/internal/notify"
	"github.com/sketchforge/studio/backend/internal/project"
	"github.com/sketchforge/studio/backend/internal/sandbox/packages"
	"github.com/sketchforge/studio/backend/internal/ws"
)

// Handlers bundles the REST endpoints' dependencies.
type Handlers struct {
	files         *project.Store
	console       *console.Store
	notifications *notify.Center
	fixes         *autofix.Controller
	relay         *ws.Handler
	prober        *packages.Prober
	limits        config.SandboxConfig
	logger        *logging.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(
	files *project.Store,
	consoleStore *console.Store,
	notifications *notify.Center,
	fixes *autofix.Controller,
	relay *ws.Handler,
	limits config.SandboxConfig,
	logger *logging.Logger,
) *Handlers {
	return &Handlers{
		files:         files,
		console:       consoleStore,
		notifications: notifications,
		fixes:         fixes,
		relay:         relay,
		prober:        packages.NewProber(),
		limits:        limits,
		logger:        logger.Component("http"),
	}
}

// Root handles the liveness check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "SketchForge Sandbox Host",
		"version": "0.3.0",
	})
}

// Health reports session state for readiness probes and the shell's status bar.
func (h *Handlers) Health(c *gin.Context) {
	fileCount := 0
	if snap, err := h.files.Snapshot(); err == nil {
		fileCount = snap.Len()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"incarnation": h.files.Incarnation(),
		"files":       fileCount,
		"logs":        len(h.console.Logs()),
	})
}
