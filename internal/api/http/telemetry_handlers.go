package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLogs returns the captured console log, oldest first.
func (h *Handlers) ListLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": h.console.Logs()})
}

// ClearLogs empties the console log.
func (h *Handlers) ClearLogs(c *gin.Context) {
	h.console.ClearLogs()
	c.Status(http.StatusNoContent)
}

// ListNetwork returns the captured network observations.
func (h *Handlers) ListNetwork(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"requests": h.console.Network()})
}

// ClearNetwork empties the network log.
func (h *Handlers) ClearNetwork(c *gin.Context) {
	h.console.ClearNetwork()
	c.Status(http.StatusNoContent)
}
