package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func RequestMetrics(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsManager == nil {
			c.Next()
			return
		}

		defer func(begin time.Time) {
			metricsManager.HistRequestDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())

		// handler call
		c.Next()

		metricsManager.CounterRequests.With(
			prometheus.Labels{
				"method": c.Request.Method,
				"status": strconv.Itoa(c.Writer.Status()),
			},
		).Inc()
	}
}
