package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/metrics"
)

// Metrics returns a middleware recording request count and latency per
// route pattern. /metrics and /health are left out of their own numbers.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics.ShouldSkipEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		// FullPath is empty for requests that matched no route; collapsing
		// them keeps label cardinality independent of what clients probe
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
