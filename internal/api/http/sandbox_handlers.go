package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sketchforge/studio/backend/internal/sandbox/packages"
)

// NavigateRequest drives the sandbox's virtual history.
type NavigateRequest struct {
	URL string `json:"url" binding:"required"`
}

// InspectModeRequest toggles element inspection.
type InspectModeRequest struct {
	Enabled bool `json:"enabled"`
}

// Navigate pushes a virtual navigation into the sandbox and returns the
// resulting address-bar state.
func (h *Handlers) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	h.relay.Navigate(req.URL)
	c.JSON(http.StatusOK, h.relay.NavigationState())
}

// Back steps the sandbox history backward.
func (h *Handlers) Back(c *gin.Context) {
	h.relay.Back()
	c.JSON(http.StatusOK, h.relay.NavigationState())
}

// Forward steps the sandbox history forward.
func (h *Handlers) Forward(c *gin.Context) {
	h.relay.Forward()
	c.JSON(http.StatusOK, h.relay.NavigationState())
}

// CurrentURL reports the host's view of the sandbox's virtual location.
func (h *Handlers) CurrentURL(c *gin.Context) {
	c.JSON(http.StatusOK, h.relay.NavigationState())
}

// SetInspectMode arms or disarms element inspection in the sandbox.
func (h *Handlers) SetInspectMode(c *gin.Context) {
	var req InspectModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid inspect payload"})
		return
	}
	h.relay.SetInspectMode(req.Enabled)
	c.JSON(http.StatusOK, gin.H{"enabled": req.Enabled})
}

// ListPackages returns the pinned dependency catalog.
func (h *Handlers) ListPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": packages.All()})
}

// ProbePackages checks CDN reachability for every pinned package.
func (h *Handlers) ProbePackages(c *gin.Context) {
	results := h.prober.Check(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"results": results})
}
