package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"face-attendance/pkg/logger"
)

const (
	sheetName = "Attendance"

	// Fixed column order: Name | Department | Date | Status. The Date column
	// (index 2) is the authoritative one for duplicate detection.
	colName       = 0
	colDepartment = 1
	colDate       = 2
	colStatus     = 3
)

// ExcelLedger appends daily attendance rows to a single-sheet workbook.
// Every write goes through one process-wide mutex and is published with a
// temp file + atomic rename, so observers only ever see a complete workbook
// and the at-most-once invariant survives crashes.
type ExcelLedger struct {
	path      string
	writeLock sync.Mutex
}

func NewExcelLedger(path string) *ExcelLedger {
	return &ExcelLedger{path: path}
}

// Path returns the absolute path to the ledger artifact.
func (l *ExcelLedger) Path() string {
	abs, err := filepath.Abs(l.path)
	if err != nil {
		return l.path
	}
	return abs
}

// MarkAttendance writes one (name, today) row. Returns true when a new row
// was written, false when the subject is already marked for today. A
// recognizably corrupt ledger (0-byte file, unreadable container) is deleted
// and recreated on this call.
func (l *ExcelLedger) MarkAttendance(name, department, status string) (bool, error) {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()

	today := time.Now().Format("2006-01-02")

	f, err := l.openOrCreate()
	if err != nil {
		return false, err
	}
	defer f.Close()

	// Duplicate check on the workbook we are about to modify. The mutex
	// serializes in-process writers; this also covers rows written by a
	// previous process run.
	marked, err := l.isAlreadyMarked(f, name, today)
	if err != nil {
		return false, err
	}
	if marked {
		logger.Debug(logger.CategoryAttendance, "mark_skip", "Already marked for today", map[string]interface{}{"name": name, "date": today})
		return false, nil
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return false, fmt.Errorf("failed to read sheet: %w", err)
	}

	rowNum := len(rows) + 1
	cells := []string{name, department, today, status}
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return false, err
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return false, fmt.Errorf("failed to set cell: %w", err)
		}
	}

	if err := l.publish(f); err != nil {
		return false, err
	}

	logger.Attendance("mark", "Attendance marked", map[string]interface{}{
		"name":       name,
		"department": department,
		"date":       today,
		"status":     status,
	})
	return true, nil
}

// MarkedToday returns the set of names with a record dated today. Empty when
// no ledger exists; a corrupt ledger is deleted so the next write recreates it.
func (l *ExcelLedger) MarkedToday() (map[string]struct{}, error) {
	l.writeLock.Lock()
	defer l.writeLock.Unlock()

	marked := make(map[string]struct{})

	info, err := os.Stat(l.path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		l.removeIfEmpty()
		return marked, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat ledger: %w", err)
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		// Unreadable container: drop it so the next write starts fresh.
		logger.Warn(logger.CategoryAttendance, "ledger_corrupt", "Ledger unreadable, deleting for recreation", map[string]interface{}{"error": err.Error()})
		os.Remove(l.path)
		return marked, nil
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return marked, nil
	}

	today := time.Now().Format("2006-01-02")
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) <= colDate {
			continue
		}
		if row[colDate] == today {
			marked[row[colName]] = struct{}{}
		}
	}

	return marked, nil
}

// openOrCreate opens the existing workbook or builds a fresh one with the
// header row. Corrupt files are deleted and replaced.
func (l *ExcelLedger) openOrCreate() (*excelize.File, error) {
	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		f, openErr := excelize.OpenFile(l.path)
		if openErr == nil {
			if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
				if _, err := f.NewSheet(sheetName); err != nil {
					f.Close()
					return nil, err
				}
				if err := l.writeHeader(f); err != nil {
					f.Close()
					return nil, err
				}
			}
			return f, nil
		}
		logger.Warn(logger.CategoryAttendance, "ledger_corrupt", "Ledger unreadable, recreating", map[string]interface{}{"error": openErr.Error()})
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove corrupt ledger: %w", err)
		}
	} else if err == nil && info.Size() == 0 {
		logger.Warn(logger.CategoryAttendance, "ledger_empty", "Empty ledger file detected, recreating", nil)
		os.Remove(l.path)
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat ledger: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := l.writeHeader(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (l *ExcelLedger) writeHeader(f *excelize.File) error {
	headers := []string{"Name", "Department", "Date", "Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, "A1", "D1", styleID)
}

func (l *ExcelLedger) isAlreadyMarked(f *excelize.File, name, date string) (bool, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return false, fmt.Errorf("failed to read sheet: %w", err)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) <= colDate {
			continue
		}
		if row[colName] == name && row[colDate] == date {
			return true, nil
		}
	}
	return false, nil
}

// publish serializes the workbook to a sibling temp file, syncs it to disk
// and renames it over the target. On any failure the temp file is removed.
func (l *ExcelLedger) publish(f *excelize.File) error {
	tmpPath := l.path + ".tmp"

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp ledger: %w", err)
	}

	// Rename is atomic on POSIX; elsewhere it degrades to replace-rename,
	// which still never exposes a partial workbook to readers of the path.
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish ledger: %w", err)
	}

	return nil
}

func (l *ExcelLedger) removeIfEmpty() {
	if info, err := os.Stat(l.path); err == nil && info.Size() == 0 {
		logger.Warn(logger.CategoryAttendance, "ledger_empty", "Empty ledger file detected, deleting", nil)
		os.Remove(l.path)
	}
}
