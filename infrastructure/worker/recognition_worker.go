package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"

	"face-attendance/domain/services"
	"face-attendance/infrastructure/vision"
	"face-attendance/pkg/config"
	"face-attendance/pkg/logger"
)

// Worker lifecycle states.
const (
	stateIdle int32 = iota
	stateStarting
	stateRunning
	stateStopping
)

const (
	// startupWait bounds how long Start blocks for the session goroutine to
	// report its init outcome.
	startupWait = 500 * time.Millisecond

	// stopTimeout bounds the join on Stop. A session that does not exit in
	// time is logged as a leak and abandoned.
	stopTimeout = 3 * time.Second

	// noFrameBackoff is the sleep after the camera returns no frame.
	noFrameBackoff = 100 * time.Millisecond

	// headlessFramePause paces the loop when no display window is attached.
	headlessFramePause = 33 * time.Millisecond

	// frameRateLogInterval spaces the periodic throughput log lines.
	frameRateLogInterval = 30 * time.Second

	attendanceStatus = "Present"
)

// RecognitionWorker runs the camera recognition session: one goroutine grabs
// frames, detects faces, predicts identities and marks attendance. At most
// one session exists at a time.
type RecognitionWorker struct {
	labelMapper services.LabelMapper
	ledger      services.AttendanceLedger
	storage     config.StorageConfig
	recog       config.RecognitionConfig

	mu     sync.Mutex // serializes Start and Stop
	state  atomic.Int32
	gen    atomic.Uint64 // current session generation, bumped by Start
	cancel context.CancelFunc
	done   chan struct{} // closed when the session goroutine exits
}

func NewRecognitionWorker(
	labelMapper services.LabelMapper,
	ledger services.AttendanceLedger,
	storage config.StorageConfig,
	recog config.RecognitionConfig,
) *RecognitionWorker {
	return &RecognitionWorker{
		labelMapper: labelMapper,
		ledger:      ledger,
		storage:     storage,
		recog:       recog,
	}
}

// Start launches a recognition session. It waits up to startupWait for the
// session goroutine to finish initializing; an init failure inside the wait
// is returned to the caller. A session still initializing when the wait
// expires keeps coming up (or failing) in the background, but the caller is
// told it has not started.
func (w *RecognitionWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Load() != stateIdle {
		return services.ErrAlreadyRunning
	}
	w.state.Store(stateStarting)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	done := make(chan struct{})
	w.done = done
	gen := w.gen.Add(1)

	initDone := make(chan error, 1)
	go w.run(ctx, gen, done, initDone)

	select {
	case err := <-initDone:
		if err != nil {
			w.state.Store(stateIdle)
			return err
		}
		return nil
	case <-time.After(startupWait):
		return fmt.Errorf("%w: no running session after %s", services.ErrStartTimeout, startupWait)
	}
}

// Stop signals the session and joins it with a bounded wait.
func (w *RecognitionWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := w.state.Load()
	if state != stateRunning && state != stateStarting {
		return services.ErrNotRunning
	}
	w.state.Store(stateStopping)
	w.cancel()

	select {
	case <-w.done:
		logger.Recognition("worker_stopped", "Recognition session stopped", nil)
	case <-time.After(stopTimeout):
		logger.RecognitionError("worker_leak", "Recognition session did not stop in time", nil, map[string]interface{}{
			"timeout": stopTimeout.String(),
		})
	}

	w.state.Store(stateIdle)
	return nil
}

// Status is a lock-free read of the worker state.
func (w *RecognitionWorker) Status() services.RecognitionStatus {
	switch w.state.Load() {
	case stateStarting:
		return services.RecognitionStatus{Running: false, Message: "Face recognition is starting"}
	case stateRunning:
		return services.RecognitionStatus{Running: true, Message: "Face recognition is running"}
	case stateStopping:
		return services.RecognitionStatus{Running: true, Message: "Face recognition is stopping"}
	default:
		return services.RecognitionStatus{Running: false, Message: "Face recognition is not running"}
	}
}

// run owns the whole session: init, the frame loop and resource teardown.
func (w *RecognitionWorker) run(ctx context.Context, gen uint64, done chan struct{}, initDone chan<- error) {
	defer w.finishSession(gen, done)

	modelPath, err := findModelFile(w.storage.ModelPath)
	if err != nil {
		logger.RecognitionError("model_missing", "Trained model not found, train first", err, nil)
		initDone <- err
		return
	}

	if err := w.labelMapper.Refresh(ctx); err != nil {
		logger.RecognitionError("label_map", "Failed to load label map", err, nil)
		initDone <- err
		return
	}

	// Advisory in-session duplicate filter. The ledger is the authority; this
	// set only avoids re-reading the file for every frame.
	marked, err := w.ledger.MarkedToday()
	if err != nil {
		logger.AttendanceError("marked_today", "Failed to read today's attendance, starting empty", err, nil)
		marked = make(map[string]struct{})
	}

	detector, err := vision.NewCascadeDetector(w.storage.CascadePath)
	if err != nil {
		logger.RecognitionError("detector_init", "Failed to load face detector", err, nil)
		initDone <- err
		return
	}
	defer detector.Close()

	recognizer, err := vision.LoadLBPHRecognizer(modelPath)
	if err != nil {
		logger.RecognitionError("model_load", "Failed to load trained model", err, map[string]interface{}{
			"path": modelPath,
		})
		initDone <- err
		return
	}
	defer recognizer.Close()

	camera, err := vision.OpenCamera(w.recog.CameraDevice)
	if err != nil {
		logger.RecognitionError("camera_open", "Failed to open camera", err, map[string]interface{}{
			"device": w.recog.CameraDevice,
		})
		initDone <- err
		return
	}
	defer camera.Close()

	w.state.Store(stateRunning)
	initDone <- nil

	logger.Recognition("worker_started", "Recognition session started", map[string]interface{}{
		"model":        modelPath,
		"labels":       w.labelMapper.Count(),
		"marked_today": len(marked),
		"threshold":    w.recog.ConfidenceThreshold,
		"display":      w.recog.DisplayEnabled,
	})

	var display *vision.Display
	if w.recog.DisplayEnabled {
		display = vision.NewDisplay("Face Recognition - Attendance")
		defer display.Close()
	}

	w.loop(ctx, camera, detector, recognizer, display, marked)
}

// finishSession closes the session's own done channel and releases the shared
// state, but only while this session still owns the current generation. A
// session leaked past the stop timeout exits without touching its successor.
func (w *RecognitionWorker) finishSession(gen uint64, done chan struct{}) {
	close(done)
	if w.gen.Load() != gen {
		return
	}
	// Stop sets idle itself after the join; this covers sessions that end on
	// their own (init failure, closed display window).
	if w.state.Load() != stateStopping {
		w.state.Store(stateIdle)
	}
}

// loop is the per-frame pipeline. It exits when the context is cancelled or
// the display window is closed.
func (w *RecognitionWorker) loop(
	ctx context.Context,
	camera vision.FrameSource,
	detector vision.FaceDetector,
	recognizer vision.FaceRecognizer,
	display *vision.Display,
	marked map[string]struct{},
) {
	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	frames := 0
	lastReport := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !camera.Grab(&frame) {
			time.Sleep(noFrameBackoff)
			continue
		}

		frames++
		if elapsed := time.Since(lastReport); elapsed >= frameRateLogInterval {
			logger.Recognition("frame_rate", "Session throughput", map[string]interface{}{
				"frames": frames,
				"fps":    float64(frames) / elapsed.Seconds(),
			})
			frames = 0
			lastReport = time.Now()
		}

		vision.ToGrayscale(frame, &gray)

		for _, rect := range detector.Detect(gray) {
			face := vision.NormalizeFace(gray, rect)
			pred := recognizer.Predict(face)
			face.Close()

			entry, recognized := w.identify(pred)

			name := "Unknown"
			if recognized {
				name = entry.Name
				w.markOnce(entry, marked)
			}

			if display != nil {
				vision.AnnotateFace(&frame, rect, name, pred.Distance, recognized)
			}
		}

		if display != nil {
			if !display.Show(frame) {
				logger.Recognition("window_closed", "Display window closed, ending session", nil)
				return
			}
		} else {
			time.Sleep(headlessFramePause)
		}
	}
}

// identify resolves a prediction against the label map and applies the
// confidence gate: the label must be known and the LBPH distance strictly
// below the threshold.
func (w *RecognitionWorker) identify(pred vision.Prediction) (services.LabelEntry, bool) {
	entry, known := w.labelMapper.Resolve(pred.Label)
	if !known || pred.Distance >= w.recog.ConfidenceThreshold {
		return services.LabelEntry{}, false
	}
	return entry, true
}

// markOnce writes the attendance record the first time a subject is seen in
// this session. The name goes into the advisory set even when the write fails
// or reports a duplicate, so the session never retries every frame.
func (w *RecognitionWorker) markOnce(entry services.LabelEntry, marked map[string]struct{}) {
	if _, seen := marked[entry.Name]; seen {
		return
	}
	marked[entry.Name] = struct{}{}

	written, err := w.ledger.MarkAttendance(entry.Name, entry.Department, attendanceStatus)
	if err != nil {
		logger.AttendanceError("mark_failed", "Failed to write attendance record", err, map[string]interface{}{
			"name": entry.Name,
		})
		return
	}
	if written {
		logger.Attendance("marked", "Attendance marked", map[string]interface{}{
			"name":       entry.Name,
			"department": entry.Department,
		})
	}
}

// findModelFile probes the known locations of the trained model artifact:
// the configured path itself, its parent directory sibling, and the same two
// relative to the process working directory.
func findModelFile(modelPath string) (string, error) {
	cwd, _ := os.Getwd()
	candidates := []string{
		modelPath,
		filepath.Join("..", modelPath),
	}
	if cwd != "" {
		candidates = append(candidates,
			filepath.Join(cwd, modelPath),
			filepath.Join(cwd, "..", modelPath),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: %s", services.ErrModelNotFound, modelPath)
}
