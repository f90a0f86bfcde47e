package services

import "errors"

// Tagged error kinds. Handlers map these to HTTP statuses with errors.Is;
// everything else surfaces as an internal error.
var (
	// Validation / registry
	ErrNameRequired       = errors.New("student name is required")
	ErrDepartmentRequired = errors.New("department is required")
	ErrImageRequired      = errors.New("student image is required")
	ErrDuplicateStudent   = errors.New("student with this name already exists")
	ErrStudentNotFound    = errors.New("student not found")

	// Training
	ErrNoStudents       = errors.New("no students registered")
	ErrNoTrainableFaces = errors.New("no faces found for training")

	// Recognition lifecycle
	ErrAlreadyRunning      = errors.New("face recognition is already running")
	ErrNotRunning          = errors.New("face recognition is not running")
	ErrStartTimeout        = errors.New("face recognition did not start in time")
	ErrModelNotFound       = errors.New("trained model file not found")
	ErrModelLoad           = errors.New("failed to load trained model")
	ErrDetectorUnavailable = errors.New("failed to load face detector cascade")
	ErrCameraUnavailable   = errors.New("failed to open camera")

	// External recognizer subprocess
	ErrExternalUnavailable = errors.New("external recognizer is not available")
	ErrExternalFailed      = errors.New("external recognizer failed")
)
