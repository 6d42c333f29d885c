// metrics.go - Request counters and latency histogram

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-room-booking/metrics"
)

// MetricsMiddleware records every request under its route template, so
// /api/rooms/1 and /api/rooms/2 share one series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
