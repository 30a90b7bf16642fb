package middleware

import (
	"time"

	"villfresh_store/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counters and latency for Prometheus.
func MetricsMiddleware() gin.HandlerFunc {
	collector := metrics.GetGlobalCollector()
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// FullPath gives the route template (/api/orders/:id), keeping
		// label cardinality bounded.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start))
	}
}
