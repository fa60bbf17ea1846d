package metrics

import (
	"fmt"
	"time"
)

// RecordHTTPRequest records one served request against its route pattern
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusClass(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// statusClass collapses a status code into its class label (2xx..5xx) to
// keep the label cardinality bounded
func statusClass(code int) string {
	if code < 200 || code > 599 {
		return "unknown"
	}
	return fmt.Sprintf("%dxx", code/100)
}

// ShouldSkipEndpoint reports whether a path is excluded from HTTP metrics
func ShouldSkipEndpoint(path string) bool {
	return path == "/metrics" || path == "/health"
}
