package handlers

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request with method, path, status and latency.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if userID := currentUserID(c); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		if c.Writer.Status() >= 500 {
			logger.Error("Request failed", fields...)
		} else {
			logger.Info("Request handled", fields...)
		}
	}
}
