package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupTrainingRoutes(api fiber.Router, h *handlers.Handlers) {
	training := api.Group("/training")

	training.Post("/train", h.Training.Train)
	training.Get("/external-status", h.Training.ExternalStatus)
}
