package handlers

import (
	"gorm.io/gorm"

	"face-attendance/domain/services"
	"face-attendance/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	StudentService     services.StudentService
	TrainingService    services.TrainingService
	RecognitionService services.RecognitionService
	AttendanceLedger   services.AttendanceLedger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Student     *StudentHandler
	Training    *TrainingHandler
	Recognition *RecognitionHandler
	Health      *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(svcs *Services, db *gorm.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		Student:     NewStudentHandler(svcs.StudentService),
		Training:    NewTrainingHandler(svcs.TrainingService),
		Recognition: NewRecognitionHandler(svcs.RecognitionService, svcs.AttendanceLedger),
		Health:      NewHealthHandler(db, svcs.TrainingService, cfg.Storage),
	}
}
