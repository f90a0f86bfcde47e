package services

import "context"

// TrainMode selects the classifier implementation used for training.
type TrainMode string

const (
	TrainModeAuto     TrainMode = "auto"     // prefer external when available
	TrainModeNative   TrainMode = "native"   // in-process LBPH classifier
	TrainModeExternal TrainMode = "external" // helper subprocess
)

// TrainResult reports the outcome of a training run.
type TrainResult struct {
	Success        bool   `json:"success"`
	TrainedCount   int    `json:"trainedCount"`
	Implementation string `json:"implementation"`
	Message        string `json:"message,omitempty"`
}

// TrainingService builds the classifier artifact from the subject registry.
type TrainingService interface {
	// Train walks the registry in insertion order, crops the largest face of
	// each reference image and trains a classifier over (crop, labelId)
	// pairs. Fails with ErrNoStudents on an empty registry and with
	// ErrNoTrainableFaces when every image is skipped.
	Train(ctx context.Context, mode TrainMode) (*TrainResult, error)

	// ExternalAvailable reports whether the helper subprocess can be used.
	ExternalAvailable() bool
}
