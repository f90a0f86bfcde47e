package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers) {
	// Setup health and root routes
	SetupHealthRoutes(app, h)

	// API version group
	api := app.Group("/api/v1")

	// Setup all route groups
	SetupStudentRoutes(api, h)
	SetupTrainingRoutes(api, h)
	SetupRecognitionRoutes(api, h)
}
