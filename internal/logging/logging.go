// Package logging provides the process logger and the request-logging
// middleware with per-request correlation ids.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const correlationKey = "correlationID"

// CorrelationHeader is echoed back to callers for cross-service tracing.
const CorrelationHeader = "X-Correlation-ID"

// Init builds a JSON logger honoring LOG_LEVEL (debug, info, warn, error).
func Init() (*slog.Logger, error) {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, nil
}

// Middleware attaches a correlation id to each request and logs its outcome.
func Middleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationKey, id)
		c.Header(CorrelationHeader, id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"correlationID", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// CorrelationID returns the id attached by Middleware, empty when absent.
func CorrelationID(c *gin.Context) string {
	return c.GetString(correlationKey)
}
