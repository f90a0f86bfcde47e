package handlers

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

type RecognitionHandler struct {
	recognitionService services.RecognitionService
	ledger             services.AttendanceLedger
}

func NewRecognitionHandler(
	recognitionService services.RecognitionService,
	ledger services.AttendanceLedger,
) *RecognitionHandler {
	return &RecognitionHandler{
		recognitionService: recognitionService,
		ledger:             ledger,
	}
}

func (h *RecognitionHandler) Start(c *fiber.Ctx) error {
	if err := h.recognitionService.Start(); err != nil {
		return serviceErrorResponse(c, "Failed to start face recognition", err)
	}
	return utils.SuccessResponse(c, "Face recognition started", h.recognitionService.Status())
}

func (h *RecognitionHandler) Stop(c *fiber.Ctx) error {
	if err := h.recognitionService.Stop(); err != nil {
		return serviceErrorResponse(c, "Failed to stop face recognition", err)
	}
	return utils.SuccessResponse(c, "Face recognition stopped", h.recognitionService.Status())
}

func (h *RecognitionHandler) Status(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Recognition status", h.recognitionService.Status())
}

// RecognizeImage identifies faces in an uploaded still image via the
// external recognizer.
func (h *RecognitionHandler) RecognizeImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return serviceErrorResponse(c, "Image file is required", services.ErrImageRequired)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to open uploaded image", err)
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded image", err)
	}

	faces, err := h.recognitionService.RecognizeImage(c.UserContext(), imageData, fileHeader.Filename)
	if err != nil {
		return serviceErrorResponse(c, "Image recognition failed", err)
	}

	return utils.SuccessResponse(c, "Image recognized", fiber.Map{
		"faces": faces,
		"count": len(faces),
	})
}

// AttendanceFile reports the ledger artifact location and today's marked
// subjects without transferring the file.
func (h *RecognitionHandler) AttendanceFile(c *fiber.Ctx) error {
	info, err := os.Stat(h.ledger.Path())
	exists := err == nil

	data := fiber.Map{
		"path":   h.ledger.Path(),
		"exists": exists,
	}
	if exists {
		data["size"] = info.Size()
		data["modified"] = info.ModTime().Format(time.RFC3339)
	}

	marked, err := h.ledger.MarkedToday()
	if err == nil {
		names := make([]string, 0, len(marked))
		for name := range marked {
			names = append(names, name)
		}
		data["marked_today"] = names
	}

	return utils.SuccessResponse(c, "Attendance file info", data)
}

func (h *RecognitionHandler) AttendanceFileDownload(c *fiber.Ctx) error {
	path := h.ledger.Path()
	if _, err := os.Stat(path); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Attendance file does not exist yet", err)
	}
	return c.Download(path, "attendance.xlsx")
}
