package middleware

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/pkg/logger"
	"face-attendance/pkg/utils"
)

// ErrorHandler is the last resort for errors no handler mapped itself:
// fiber routing errors (404, 405, oversized multipart bodies) and anything
// that escaped the service-error mapping.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		fields := map[string]interface{}{
			"status_code": code,
			"path":        c.Path(),
			"method":      c.Method(),
		}
		if id, ok := c.Locals("request_id").(string); ok {
			fields["request_id"] = id
		}
		logger.Error(logger.CategoryAPI, "unhandled_error", "Unhandled request error", err, fields)

		return utils.ErrorResponse(c, code, "Request failed", err)
	}
}
