package repositories

import (
	"context"

	"face-attendance/domain/models"
)

// StudentRepository persists enrolled subjects.
type StudentRepository interface {
	// Create inserts the student, assigning LabelID as max(existing)+1 inside
	// a single transaction. Concurrent calls never assign the same label.
	Create(ctx context.Context, student *models.Student) error

	// List returns all students in insertion order.
	List(ctx context.Context) ([]models.Student, error)

	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByName(ctx context.Context, name string) (*models.Student, error)
	GetByLabelID(ctx context.Context, labelID int) (*models.Student, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
