package services

import "context"

// RecognitionStatus is a pure read of the worker state.
type RecognitionStatus struct {
	Running bool   `json:"running"`
	Message string `json:"message"`
}

// RecognizedFace is one identified face in a still image.
type RecognizedFace struct {
	LabelID    int     `json:"labelId"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Confidence float64 `json:"confidence"`
	// Location is [top, right, bottom, left] in pixels.
	Location [4]int `json:"location"`
}

// RecognitionService controls the camera recognition session and one-shot
// image recognition through the external helper.
type RecognitionService interface {
	// Start launches the recognition worker. Fails with ErrAlreadyRunning,
	// or with the startup error the worker reported within the bounded wait.
	Start() error

	// Stop signals the worker and waits for the bounded join. Fails with
	// ErrNotRunning when idle.
	Stop() error

	Status() RecognitionStatus

	// RecognizeImage identifies faces in a single image via the external
	// recognizer. Fails with ErrExternalUnavailable when no helper is found.
	RecognizeImage(ctx context.Context, imageData []byte, filename string) ([]RecognizedFace, error)
}
