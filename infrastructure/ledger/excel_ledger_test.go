package ledger

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestLedger(t *testing.T) *ExcelLedger {
	t.Helper()
	return NewExcelLedger(filepath.Join(t.TempDir(), "attendance.xlsx"))
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	return rows
}

func TestMarkAttendanceCreatesLedgerWithHeader(t *testing.T) {
	l := newTestLedger(t)

	written, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	assert.True(t, written)

	rows := readRows(t, l.Path())
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Name", "Department", "Date", "Status"}, rows[0])
	assert.Equal(t, "Alice", rows[1][colName])
	assert.Equal(t, "Engineering", rows[1][colDepartment])
	assert.Equal(t, time.Now().Format("2006-01-02"), rows[1][colDate])
	assert.Equal(t, "Present", rows[1][colStatus])
}

func TestMarkAttendanceSameDayDuplicate(t *testing.T) {
	l := newTestLedger(t)

	written, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	assert.True(t, written)

	written, err = l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	assert.False(t, written, "second mark on the same day must be a no-op")

	rows := readRows(t, l.Path())
	assert.Len(t, rows, 2, "duplicate mark must not append a row")
}

func TestMarkAttendanceDistinctSubjects(t *testing.T) {
	l := newTestLedger(t)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		written, err := l.MarkAttendance(name, "Engineering", "Present")
		require.NoError(t, err)
		assert.True(t, written)
	}

	rows := readRows(t, l.Path())
	assert.Len(t, rows, 4)
}

func TestMarkAttendanceConcurrent(t *testing.T) {
	l := newTestLedger(t)

	// Many writers racing on the same subject: exactly one row wins.
	const writers = 10
	var wg sync.WaitGroup
	results := make(chan bool, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			written, err := l.MarkAttendance("Alice", "Engineering", "Present")
			assert.NoError(t, err)
			results <- written
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for written := range results {
		if written {
			wins++
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent writer may append the row")

	rows := readRows(t, l.Path())
	assert.Len(t, rows, 2)
}

func TestMarkedTodayWithoutLedger(t *testing.T) {
	l := newTestLedger(t)

	marked, err := l.MarkedToday()
	require.NoError(t, err)
	assert.Empty(t, marked)
}

func TestMarkedTodayReturnsTodaysNames(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	_, err = l.MarkAttendance("Bob", "Design", "Present")
	require.NoError(t, err)

	marked, err := l.MarkedToday()
	require.NoError(t, err)
	assert.Len(t, marked, 2)
	assert.Contains(t, marked, "Alice")
	assert.Contains(t, marked, "Bob")
}

func TestMarkedTodayIgnoresOtherDates(t *testing.T) {
	l := newTestLedger(t)

	// Seed a row dated yesterday directly in the workbook.
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	require.NoError(t, f.SetCellValue(sheetName, "A1", "Name"))
	require.NoError(t, f.SetCellValue(sheetName, "A2", "Alice"))
	require.NoError(t, f.SetCellValue(sheetName, "B2", "Engineering"))
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	require.NoError(t, f.SetCellValue(sheetName, "C2", yesterday))
	require.NoError(t, f.SetCellValue(sheetName, "D2", "Present"))
	require.NoError(t, f.SaveAs(l.path))
	f.Close()

	marked, err := l.MarkedToday()
	require.NoError(t, err)
	assert.Empty(t, marked)

	// A past-day row never blocks today's mark.
	written, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	assert.True(t, written)
}

func TestZeroByteLedgerIsRecreated(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, os.WriteFile(l.path, nil, 0644))

	marked, err := l.MarkedToday()
	require.NoError(t, err)
	assert.Empty(t, marked)

	_, err = os.Stat(l.path)
	assert.True(t, os.IsNotExist(err), "empty ledger file must be deleted")

	written, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	assert.True(t, written)

	rows := readRows(t, l.Path())
	assert.Len(t, rows, 2)
}

func TestCorruptLedgerIsRecreated(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, os.WriteFile(l.path, []byte("not a workbook"), 0644))

	written, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)
	assert.True(t, written)

	rows := readRows(t, l.Path())
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[1][colName])
}

func TestNoTempFileLeftBehind(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.MarkAttendance("Alice", "Engineering", "Present")
	require.NoError(t, err)

	_, err = os.Stat(l.path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPathIsAbsolute(t *testing.T) {
	l := NewExcelLedger("attendance.xlsx")
	assert.True(t, filepath.IsAbs(l.Path()))
}
