package handlers

import (
	"github.com/gofiber/fiber/v2"

	"face-attendance/domain/services"
	"face-attendance/pkg/utils"
)

type TrainingHandler struct {
	trainingService services.TrainingService
}

func NewTrainingHandler(trainingService services.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// Train rebuilds the classifier. The optional mode query selects the
// implementation: auto (default), native or external.
func (h *TrainingHandler) Train(c *fiber.Ctx) error {
	mode := services.TrainMode(c.Query("mode", string(services.TrainModeAuto)))

	result, err := h.trainingService.Train(c.UserContext(), mode)
	if err != nil {
		return serviceErrorResponse(c, "Training failed", err)
	}

	return utils.SuccessResponse(c, "Training completed", result)
}

func (h *TrainingHandler) ExternalStatus(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "External recognizer status", fiber.Map{
		"available": h.trainingService.ExternalAvailable(),
	})
}
