package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shortlink-be/internal/metrics"
)

// Metrics collects HTTP metrics for each request
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		// route pattern keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordHTTPMetrics(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}
