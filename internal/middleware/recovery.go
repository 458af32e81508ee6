package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/liftlog/internal/metrics"
	log "github.com/sirupsen/logrus"
)

func PanicRecovery(metricsManager *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("request_id", GetRequestID(c)).
					Errorf("http: panic serving %s: %v\n%s", c.Request.URL.Path, r, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandlerPanics.Inc()
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
			}
		}()

		// handler call
		c.Next()
	}
}
