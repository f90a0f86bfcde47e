package handlers

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"face-attendance/domain/services"
	"face-attendance/pkg/config"
)

type HealthHandler struct {
	db              *gorm.DB
	trainingService services.TrainingService
	storage         config.StorageConfig
}

func NewHealthHandler(db *gorm.DB, trainingService services.TrainingService, storage config.StorageConfig) *HealthHandler {
	return &HealthHandler{
		db:              db,
		trainingService: trainingService,
		storage:         storage,
	}
}

// ComponentHealth is the status of one system component.
type ComponentHealth struct {
	Status  string `json:"status"` // "ok", "error", "unavailable"
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HealthResponse is the detailed health answer.
type HealthResponse struct {
	Status     string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "face-attendance",
	})
}

func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	response := HealthResponse{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	dbHealth := h.checkDatabase(ctx)
	response.Components["database"] = dbHealth

	if h.trainingService.ExternalAvailable() {
		response.Components["external_recognizer"] = ComponentHealth{Status: "ok", Message: "Interpreter found"}
	} else {
		response.Components["external_recognizer"] = ComponentHealth{Status: "unavailable", Message: "No interpreter found, native classifier only"}
	}

	if _, err := os.Stat(h.storage.ModelPath); err == nil {
		response.Components["trained_model"] = ComponentHealth{Status: "ok", Message: h.storage.ModelPath}
	} else {
		response.Components["trained_model"] = ComponentHealth{Status: "unavailable", Message: "Model not trained yet"}
	}

	switch {
	case dbHealth.Status != "ok":
		response.Status = "unhealthy"
	case response.Components["trained_model"].Status != "ok":
		response.Status = "degraded"
	default:
		response.Status = "healthy"
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()

	if h.db == nil {
		return ComponentHealth{Status: "error", Message: "Database not configured"}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{Status: "error", Message: "Failed to get database connection: " + err.Error()}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Database ping failed: " + err.Error()}
	}

	return ComponentHealth{
		Status:  "ok",
		Message: "Connected",
		Latency: time.Since(start).String(),
	}
}
