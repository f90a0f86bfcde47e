package serviceimpl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"face-attendance/domain/services"
	"face-attendance/infrastructure/pyface"
	"face-attendance/infrastructure/worker"
	"face-attendance/pkg/logger"
)

type RecognitionServiceImpl struct {
	worker   *worker.RecognitionWorker
	external *pyface.Client
}

func NewRecognitionService(
	recognitionWorker *worker.RecognitionWorker,
	external *pyface.Client,
) services.RecognitionService {
	return &RecognitionServiceImpl{
		worker:   recognitionWorker,
		external: external,
	}
}

func (s *RecognitionServiceImpl) Start() error {
	return s.worker.Start()
}

func (s *RecognitionServiceImpl) Stop() error {
	return s.worker.Stop()
}

func (s *RecognitionServiceImpl) Status() services.RecognitionStatus {
	return s.worker.Status()
}

// RecognizeImage identifies faces in an uploaded still image through the
// external recognizer. The upload is staged as a temp file for the helper
// and removed afterwards.
func (s *RecognitionServiceImpl) RecognizeImage(ctx context.Context, imageData []byte, filename string) ([]services.RecognizedFace, error) {
	if !s.external.Available() {
		return nil, services.ErrExternalUnavailable
	}
	if len(imageData) == 0 {
		return nil, services.ErrImageRequired
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	tmp, err := os.CreateTemp("", "recognize_*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to stage image: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage image: %w", err)
	}

	result, err := s.external.Recognize(ctx, tmpPath)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", services.ErrExternalFailed, result.Message)
	}

	faces := make([]services.RecognizedFace, len(result.Faces))
	for i, f := range result.Faces {
		faces[i] = services.RecognizedFace{
			LabelID:    f.LabelID,
			Name:       f.Name,
			Department: f.Department,
			Confidence: f.Confidence,
			Location:   f.Location,
		}
	}

	logger.Recognition("image_recognized", "Still image recognized", map[string]interface{}{
		"faces": len(faces),
	})

	return faces, nil
}
