package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupStudentRoutes(api fiber.Router, h *handlers.Handlers) {
	students := api.Group("/students")

	students.Post("/", h.Student.Register)
	students.Get("/", h.Student.List)
	students.Delete("/:id", h.Student.Delete)
}
