package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"face-attendance/domain/services"
	"face-attendance/infrastructure/vision"
	"face-attendance/pkg/config"
)

type stubLabelMapper struct {
	entries      map[int]services.LabelEntry
	refreshDelay time.Duration
	refreshErr   error
}

func (m *stubLabelMapper) Refresh(ctx context.Context) error {
	if m.refreshDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.refreshDelay):
		}
	}
	return m.refreshErr
}

func (m *stubLabelMapper) Resolve(label int) (services.LabelEntry, bool) {
	e, ok := m.entries[label]
	return e, ok
}
func (m *stubLabelMapper) Count() int { return len(m.entries) }

type stubLedger struct {
	marked  map[string]struct{}
	writes  []string
	markErr error
}

func (l *stubLedger) MarkAttendance(name, _, _ string) (bool, error) {
	l.writes = append(l.writes, name)
	if l.markErr != nil {
		return false, l.markErr
	}
	return true, nil
}
func (l *stubLedger) MarkedToday() (map[string]struct{}, error) {
	if l.marked == nil {
		return map[string]struct{}{}, nil
	}
	return l.marked, nil
}
func (l *stubLedger) Path() string { return "attendance.xlsx" }

func newWorker(t *testing.T, mapper services.LabelMapper, ledger services.AttendanceLedger, dir string) *RecognitionWorker {
	t.Helper()
	return NewRecognitionWorker(
		mapper,
		ledger,
		config.StorageConfig{
			ModelPath:   filepath.Join(dir, "trained_model.yml"),
			CascadePath: filepath.Join(dir, "cascade.xml"),
		},
		config.RecognitionConfig{ConfidenceThreshold: 80.0},
	)
}

func newTestWorker(t *testing.T, dir string) *RecognitionWorker {
	t.Helper()
	return newWorker(t, &stubLabelMapper{}, &stubLedger{}, dir)
}

func writeModelFile(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trained_model.yml"), []byte("model"), 0644))
}

func TestStartWithoutTrainedModel(t *testing.T) {
	w := newTestWorker(t, t.TempDir())

	err := w.Start()
	assert.ErrorIs(t, err, services.ErrModelNotFound)
	assert.False(t, w.Status().Running, "a failed start must leave the worker idle")

	// The failed start holds no session; a second attempt reports the same
	// condition instead of a running conflict.
	err = w.Start()
	assert.ErrorIs(t, err, services.ErrModelNotFound)
}

func TestStartWithoutDetectorCascade(t *testing.T) {
	dir := t.TempDir()
	writeModelFile(t, dir)

	w := newTestWorker(t, dir)

	err := w.Start()
	assert.ErrorIs(t, err, services.ErrDetectorUnavailable)
	assert.False(t, w.Status().Running)
}

func TestStartTimeoutWhenInitStalls(t *testing.T) {
	dir := t.TempDir()
	writeModelFile(t, dir)

	mapper := &stubLabelMapper{refreshDelay: 5 * time.Second}
	w := newWorker(t, mapper, &stubLedger{}, dir)

	err := w.Start()
	assert.ErrorIs(t, err, services.ErrStartTimeout)
	assert.False(t, w.Status().Running, "a start that timed out must not report running")

	// The stalled session is still joinable; Stop cancels it cleanly.
	require.NoError(t, w.Stop())
	assert.False(t, w.Status().Running)
}

func TestLeakedSessionCannotResetSuccessor(t *testing.T) {
	w := newTestWorker(t, t.TempDir())

	staleGen := w.gen.Add(1)
	staleDone := make(chan struct{})

	// A new session takes the slot while the stale one is still alive.
	currentGen := w.gen.Add(1)
	currentDone := make(chan struct{})
	w.state.Store(stateRunning)

	w.finishSession(staleGen, staleDone)
	assert.Equal(t, stateRunning, w.state.Load(), "a stale session must not reset the live session's state")
	select {
	case <-staleDone:
	default:
		t.Fatal("the stale session must close its own done channel")
	}
	select {
	case <-currentDone:
		t.Fatal("the live session's done channel must stay open")
	default:
	}

	w.finishSession(currentGen, currentDone)
	assert.Equal(t, stateIdle, w.state.Load())
}

func TestStopWhenIdle(t *testing.T) {
	w := newTestWorker(t, t.TempDir())

	err := w.Stop()
	assert.ErrorIs(t, err, services.ErrNotRunning)
}

func TestStatusIdleMessage(t *testing.T) {
	w := newTestWorker(t, t.TempDir())

	status := w.Status()
	assert.False(t, status.Running)
	assert.NotEmpty(t, status.Message)
}

func TestIdentifyAppliesConfidenceGate(t *testing.T) {
	mapper := &stubLabelMapper{entries: map[int]services.LabelEntry{
		3: {Name: "Alice", Department: "Physics"},
	}}
	w := newWorker(t, mapper, &stubLedger{}, t.TempDir())

	entry, ok := w.identify(vision.Prediction{Label: 3, Distance: 55})
	require.True(t, ok)
	assert.Equal(t, "Alice", entry.Name)

	_, ok = w.identify(vision.Prediction{Label: 3, Distance: 80})
	assert.False(t, ok, "a distance at the threshold is rejected")

	_, ok = w.identify(vision.Prediction{Label: 3, Distance: 95.5})
	assert.False(t, ok)

	_, ok = w.identify(vision.Prediction{Label: 7, Distance: 55})
	assert.False(t, ok, "an unmapped label never marks, however close the match")
}

func TestMarkOnceWritesEachSubjectOnce(t *testing.T) {
	ledger := &stubLedger{}
	w := newWorker(t, &stubLabelMapper{}, ledger, t.TempDir())

	marked := map[string]struct{}{}
	entry := services.LabelEntry{Name: "Alice", Department: "Physics"}
	w.markOnce(entry, marked)
	w.markOnce(entry, marked)
	w.markOnce(entry, marked)

	assert.Equal(t, []string{"Alice"}, ledger.writes)
	_, seen := marked["Alice"]
	assert.True(t, seen)
}

func TestMarkOnceSkipsNamesMarkedEarlierToday(t *testing.T) {
	ledger := &stubLedger{}
	w := newWorker(t, &stubLabelMapper{}, ledger, t.TempDir())

	marked := map[string]struct{}{"Alice": {}}
	w.markOnce(services.LabelEntry{Name: "Alice", Department: "Physics"}, marked)

	assert.Empty(t, ledger.writes)
}

func TestMarkOnceFailedWriteStillSuppressesRetries(t *testing.T) {
	ledger := &stubLedger{markErr: errors.New("workbook locked")}
	w := newWorker(t, &stubLabelMapper{}, ledger, t.TempDir())

	marked := map[string]struct{}{}
	entry := services.LabelEntry{Name: "Alice", Department: "Physics"}
	w.markOnce(entry, marked)
	w.markOnce(entry, marked)

	assert.Len(t, ledger.writes, 1, "a failed write is attempted once, not retried every frame")
	_, seen := marked["Alice"]
	assert.True(t, seen)
}

func TestFindModelFileProbesConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "trained_model.yml")
	require.NoError(t, os.WriteFile(modelPath, []byte("model"), 0644))

	found, err := findModelFile(modelPath)
	require.NoError(t, err)
	assert.Equal(t, modelPath, found)
}

func TestFindModelFileMissing(t *testing.T) {
	_, err := findModelFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, services.ErrModelNotFound)
}
