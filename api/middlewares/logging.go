package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request as structured JSON and flags the
// ones that take longer than 2 seconds.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration,
			"remote_ip": c.ClientIP(),
		}
		if duration > 2*time.Second {
			logger.WithFields(fields).Warn("Slow request detected")
		} else {
			logger.WithFields(fields).Info("Request completed")
		}
	}
}
