package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/storage"
	"face-attendance/pkg/logger"
)

type StudentServiceImpl struct {
	studentRepo repositories.StudentRepository
	imageStore  storage.ImageStore
	validate    *validator.Validate
}

func NewStudentService(
	studentRepo repositories.StudentRepository,
	imageStore storage.ImageStore,
) services.StudentService {
	return &StudentServiceImpl{
		studentRepo: studentRepo,
		imageStore:  imageStore,
		validate:    validator.New(),
	}
}

// Register enrols a new subject. The reference image is written to the image
// store first; when the insert fails afterwards the image is removed again so
// the store and the registry stay in step.
func (s *StudentServiceImpl) Register(ctx context.Context, input services.RegisterStudentInput) (*models.Student, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Department = strings.TrimSpace(input.Department)

	if err := s.validate.Struct(input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				switch fieldErr.Field() {
				case "Name":
					return nil, services.ErrNameRequired
				case "Department":
					return nil, services.ErrDepartmentRequired
				case "ImageData":
					return nil, services.ErrImageRequired
				}
			}
		}
		return nil, err
	}

	exists, err := s.studentRepo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing student: %w", err)
	}
	if exists {
		return nil, services.ErrDuplicateStudent
	}

	imagePath, err := s.imageStore.Save(input.Name, input.ImageData, input.MimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to save reference image: %w", err)
	}

	student := &models.Student{
		Name:       input.Name,
		Department: input.Department,
		ImagePath:  imagePath,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if removeErr := s.imageStore.Delete(imagePath); removeErr != nil {
			logger.RegistryError("orphan_image", "Failed to remove image after insert failure", removeErr, map[string]interface{}{
				"path": imagePath,
			})
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	logger.Registry("student_registered", "Student registered", map[string]interface{}{
		"id":       student.ID,
		"name":     student.Name,
		"label_id": student.LabelID,
	})

	return student, nil
}

func (s *StudentServiceImpl) List(ctx context.Context) ([]models.Student, error) {
	return s.studentRepo.List(ctx)
}

func (s *StudentServiceImpl) GetByName(ctx context.Context, name string) (*models.Student, error) {
	return s.studentRepo.GetByName(ctx, strings.TrimSpace(name))
}

func (s *StudentServiceImpl) GetByLabelID(ctx context.Context, labelID int) (*models.Student, error) {
	return s.studentRepo.GetByLabelID(ctx, labelID)
}

// Delete removes the registry row first, then the reference image. The next
// training run rebuilds the classifier without the removed subject.
func (s *StudentServiceImpl) Delete(ctx context.Context, id uint) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if student.ImagePath != "" {
		if err := s.imageStore.Delete(student.ImagePath); err != nil {
			logger.RegistryError("image_delete", "Failed to delete reference image", err, map[string]interface{}{
				"path": student.ImagePath,
			})
		}
	}

	logger.Registry("student_deleted", "Student deleted", map[string]interface{}{
		"id":   id,
		"name": student.Name,
	})

	return nil
}
