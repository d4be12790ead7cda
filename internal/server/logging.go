package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AminElhag/Liyaqa-sub011/internal/logger"
)

// RequestLoggingMiddleware logs one line per HTTP request.
func RequestLoggingMiddleware() gin.HandlerFunc {
	log := logger.With("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Infof("%s %s status=%d latency=%dms ip=%s",
			c.Request.Method, path, status, latency.Milliseconds(), c.ClientIP())
	}
}
