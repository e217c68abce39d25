package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SendToChatRequest hands an error to the chat collaborator.
type SendToChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// PendingFix reports whether a fix awaits confirmation.
func (h *Handlers) PendingFix(c *gin.Context) {
	message, ok := h.fixes.Pending()
	c.JSON(http.StatusOK, gin.H{"pending": ok, "error": message})
}

// ConfirmFix runs the AI fix for the pending error. The request blocks for
// the duration of the single generation attempt.
func (h *Handlers) ConfirmFix(c *gin.Context) {
	result := h.fixes.Confirm(c.Request.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// DeclineFix clears the pending fix without running anything.
func (h *Handlers) DeclineFix(c *gin.Context) {
	h.fixes.Decline()
	c.Status(http.StatusNoContent)
}

// SendToChat forwards an error to the chat side of the AI service.
func (h *Handlers) SendToChat(c *gin.Context) {
	var req SendToChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	h.fixes.SendToChat(req.Message)
	c.Status(http.StatusAccepted)
}

// ListNotifications returns live toasts, prompts, and escalation cards.
func (h *Handlers) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": h.notifications.List()})
}

// DismissNotification removes one notification by ID.
func (h *Handlers) DismissNotification(c *gin.Context) {
	if !h.notifications.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
