package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sketchforge/studio/backend/internal/shared/id"
)

const requestIDHeader = "X-Request-ID"

// Middleware records per-request metrics and tags every response with a
// request ID for log correlation. A caller-supplied ID is kept.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = id.NewRequestID()
		}
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, path, status, time.Since(start))
	}
}
