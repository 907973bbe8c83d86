package middleware

import (
	"strconv"
	"time"

	"salesapi/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records per-request counters and latency histograms. Uses the route
// template (c.FullPath) rather than the raw URL so label cardinality stays
// bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
