package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

// serviceErrorResponse maps tagged domain errors to HTTP statuses. Unknown
// errors surface as 500.
func serviceErrorResponse(c *fiber.Ctx, message string, err error) error {
	code := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrDepartmentRequired),
		errors.Is(err, services.ErrImageRequired),
		errors.Is(err, services.ErrNoStudents),
		errors.Is(err, services.ErrNoTrainableFaces),
		errors.Is(err, services.ErrModelNotFound):
		code = fiber.StatusBadRequest
	case errors.Is(err, services.ErrStudentNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateStudent),
		errors.Is(err, services.ErrAlreadyRunning),
		errors.Is(err, services.ErrNotRunning):
		code = fiber.StatusConflict
	case errors.Is(err, services.ErrExternalUnavailable),
		errors.Is(err, services.ErrStartTimeout):
		code = fiber.StatusServiceUnavailable
	case errors.Is(err, services.ErrExternalFailed):
		code = fiber.StatusBadGateway
	}

	return utils.ErrorResponse(c, code, message, err)
}
