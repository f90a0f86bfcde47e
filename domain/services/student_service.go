package services

import (
	"context"

	"face-attendance/domain/models"
)

// RegisterStudentInput carries the multipart registration payload.
type RegisterStudentInput struct {
	Name       string `validate:"required"`
	Department string `validate:"required"`
	ImageData  []byte `validate:"required"`
	MimeType   string
}

// StudentService manages subject enrolment and the reference image store.
type StudentService interface {
	// Register validates the input, persists the reference image and inserts
	// the student with the next label ID. Fails with ErrDuplicateStudent when
	// the name is taken.
	Register(ctx context.Context, input RegisterStudentInput) (*models.Student, error)

	// List returns all students in insertion order.
	List(ctx context.Context) ([]models.Student, error)

	GetByName(ctx context.Context, name string) (*models.Student, error)
	GetByLabelID(ctx context.Context, labelID int) (*models.Student, error)

	// Delete removes the student row and then its reference image. A missing
	// image file is not an error.
	Delete(ctx context.Context, id uint) error
}
