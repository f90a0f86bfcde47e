package routes

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/interfaces/api/handlers"
)

func SetupRecognitionRoutes(api fiber.Router, h *handlers.Handlers) {
	recognition := api.Group("/recognition")

	recognition.Post("/start", h.Recognition.Start)
	recognition.Post("/stop", h.Recognition.Stop)
	recognition.Get("/status", h.Recognition.Status)
	recognition.Post("/recognize-image", h.Recognition.RecognizeImage)
	recognition.Get("/attendance-file", h.Recognition.AttendanceFile)
	recognition.Get("/attendance-file/download", h.Recognition.AttendanceFileDownload)
}
