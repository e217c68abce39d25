package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sketchforge/studio/backend/internal/sandbox/document"
)

// ReplaceProjectRequest carries a complete generated file map.
type ReplaceProjectRequest struct {
	Files map[string]string `json:"files" binding:"required"`
}

// WriteFileRequest carries one manual edit.
type WriteFileRequest struct {
	Path    string `json:"path" binding:"required"`
	Content string `json:"content"`
}

// ReplaceProject swaps the entire project for a new generation result. The
// rebuilt document reaches the shell over the WebSocket via the store
// subscription.
func (h *Handlers) ReplaceProject(c *gin.Context) {
	var req ReplaceProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project payload"})
		return
	}
	if len(req.Files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project has no files"})
		return
	}
	if err := h.checkLimits(req.Files); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	snap := h.files.Replace(req.Files)
	h.logger.Info("Project replaced",
		zap.Int("files", snap.Len()),
		zap.Uint64("incarnation", snap.Incarnation()),
	)

	c.JSON(http.StatusOK, gin.H{
		"incarnation": snap.Incarnation(),
		"files":       snap.Len(),
		"entry":       snap.EntryFile(),
	})
}

// WriteFile updates one file in place.
func (h *Handlers) WriteFile(c *gin.Context) {
	var req WriteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file payload"})
		return
	}
	if len(req.Content) > h.limits.MaxFileBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds %d bytes", h.limits.MaxFileBytes),
		})
		return
	}

	snap, err := h.files.Write(req.Path, req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"incarnation": snap.Incarnation(),
		"path":        req.Path,
	})
}

// ListFiles returns the current file paths and incarnation.
func (h *Handlers) ListFiles(c *gin.Context) {
	snap, err := h.files.Snapshot()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"files": []string{}, "incarnation": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files":       snap.Paths(),
		"incarnation": snap.Incarnation(),
		"entry":       snap.EntryFile(),
	})
}

// GetFile returns one file's source text.
func (h *Handlers) GetFile(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}

	snap, err := h.files.Snapshot()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project has no files"})
		return
	}
	content, ok := snap.Get(path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path, "content": content})
}

// GetDocument assembles and returns the current sandbox document. The shell
// normally receives documents over the WebSocket; this endpoint serves
// reloads and debugging.
func (h *Handlers) GetDocument(c *gin.Context) {
	snap, err := h.files.Snapshot()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project has no files"})
		return
	}

	assembly, err := document.Assemble(snap)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assembly)
}

func (h *Handlers) checkLimits(files map[string]string) error {
	if len(files) > h.limits.MaxProjectFiles {
		return fmt.Errorf("project exceeds %d files", h.limits.MaxProjectFiles)
	}
	for path, content := range files {
		if len(content) > h.limits.MaxFileBytes {
			return fmt.Errorf("%s exceeds %d bytes", path, h.limits.MaxFileBytes)
		}
	}
	return nil
}
