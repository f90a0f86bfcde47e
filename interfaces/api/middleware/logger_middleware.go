package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"face-attendance/pkg/logger"
)

// LoggerMiddleware tags every request with an ID and logs method, path,
// status and duration on completion.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := uuid.New().String()
		c.Locals("request_id", requestID)
		c.Set("X-Request-ID", requestID)

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		entry := logger.LogEntry{
			Level:     logger.LevelInfo,
			Category:  logger.CategoryAPI,
			Action:    "request",
			Message:   c.Method() + " " + c.Path(),
			RequestID: requestID,
			Duration:  duration.String(),
			Data: map[string]interface{}{
				"status": c.Response().StatusCode(),
				"ip":     c.IP(),
			},
		}
		if err != nil {
			entry.Level = logger.LevelError
			entry.Error = err.Error()
		}
		logger.Default().Log(entry)

		return err
	}
}
