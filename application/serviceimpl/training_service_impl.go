package serviceimpl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"face-attendance/domain/models"
	"face-attendance/domain/repositories"
	"face-attendance/domain/services"
	"face-attendance/infrastructure/pyface"
	"face-attendance/infrastructure/vision"
	"face-attendance/pkg/config"
	"face-attendance/pkg/logger"
)

type TrainingServiceImpl struct {
	studentRepo repositories.StudentRepository
	external    *pyface.Client
	storage     config.StorageConfig
}

func NewTrainingService(
	studentRepo repositories.StudentRepository,
	external *pyface.Client,
	storage config.StorageConfig,
) services.TrainingService {
	return &TrainingServiceImpl{
		studentRepo: studentRepo,
		external:    external,
		storage:     storage,
	}
}

func (s *TrainingServiceImpl) ExternalAvailable() bool {
	return s.external.Available()
}

// Train walks the registry in insertion order and produces the classifier
// artifact plus the labelId=name side file.
func (s *TrainingServiceImpl) Train(ctx context.Context, mode services.TrainMode) (*services.TrainResult, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if len(students) == 0 {
		return nil, services.ErrNoStudents
	}

	switch mode {
	case services.TrainModeNative:
		return s.trainNative(students)
	case services.TrainModeExternal:
		if !s.external.Available() {
			return nil, services.ErrExternalUnavailable
		}
		return s.trainExternal(ctx, students)
	case services.TrainModeAuto, "":
		if s.external.Available() {
			return s.trainExternal(ctx, students)
		}
		return s.trainNative(students)
	default:
		return nil, fmt.Errorf("unknown training mode: %s", mode)
	}
}

// trainNative runs the in-process LBPH pipeline: for every student the
// reference image is loaded greyscale, the largest detected face is cropped
// and normalized, and the classifier is fitted over the (crop, labelId) pairs.
// Unreadable images and images without a detectable face are skipped.
func (s *TrainingServiceImpl) trainNative(students []models.Student) (*services.TrainResult, error) {
	detector, err := vision.NewCascadeDetector(s.storage.CascadePath)
	if err != nil {
		return nil, err
	}
	defer detector.Close()

	var faces []gocv.Mat
	var labels []int
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	skipped := 0
	for _, student := range students {
		img, err := vision.ReadGrayscale(student.ImagePath)
		if err != nil {
			logger.Training("image_skipped", "Skipping unreadable image", map[string]interface{}{
				"name": student.Name,
				"path": student.ImagePath,
			})
			skipped++
			continue
		}

		rects := detector.Detect(img)
		rect, ok := vision.LargestFace(rects)
		if !ok {
			img.Close()
			logger.Training("no_face", "No face found in image", map[string]interface{}{
				"name": student.Name,
				"path": student.ImagePath,
			})
			skipped++
			continue
		}

		face := vision.NormalizeFace(img, rect)
		img.Close()

		faces = append(faces, face)
		labels = append(labels, student.LabelID)
	}

	if len(faces) == 0 {
		return nil, services.ErrNoTrainableFaces
	}

	recognizer := vision.NewLBPHRecognizer()
	defer recognizer.Close()
	recognizer.Train(faces, labels)

	modelPath, err := filepath.Abs(s.storage.ModelPath)
	if err != nil {
		modelPath = s.storage.ModelPath
	}
	recognizer.Save(modelPath)

	if err := s.writeLabelNames(students); err != nil {
		logger.TrainingError("label_names", "Failed to write label names file", err, nil)
	}

	logger.Training("train_complete", "Native training complete", map[string]interface{}{
		"trained": len(faces),
		"skipped": skipped,
		"model":   modelPath,
	})

	return &services.TrainResult{
		Success:        true,
		TrainedCount:   len(faces),
		Implementation: "native",
		Message:        fmt.Sprintf("Trained %d face(s), skipped %d", len(faces), skipped),
	}, nil
}

// trainExternal hands the registry to the helper subprocess and relays its
// answer.
func (s *TrainingServiceImpl) trainExternal(ctx context.Context, students []models.Student) (*services.TrainResult, error) {
	subjects := make([]pyface.TrainSubject, len(students))
	for i, student := range students {
		imagePath, err := filepath.Abs(student.ImagePath)
		if err != nil {
			imagePath = student.ImagePath
		}
		subjects[i] = pyface.TrainSubject{
			ID:         student.ID,
			Name:       student.Name,
			Department: student.Department,
			ImagePath:  imagePath,
			LabelID:    student.LabelID,
		}
	}

	result, err := s.external.Train(ctx, subjects)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", services.ErrExternalFailed, result.Message)
	}

	logger.Training("train_complete", "External training complete", map[string]interface{}{
		"trained": result.TrainedCount,
	})

	return &services.TrainResult{
		Success:        true,
		TrainedCount:   result.TrainedCount,
		Implementation: "external",
		Message:        result.Message,
	}, nil
}

// writeLabelNames persists one "labelId=name" line per student next to the
// model artifact for consumers that read the mapping off disk.
func (s *TrainingServiceImpl) writeLabelNames(students []models.Student) error {
	var b strings.Builder
	for _, student := range students {
		fmt.Fprintf(&b, "%d=%s\n", student.LabelID, student.Name)
	}

	tmpPath := s.storage.LabelNamesPath + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(b.String()), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.storage.LabelNamesPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
