package services

// AttendanceLedger is the durable at-most-once daily attendance store.
type AttendanceLedger interface {
	// MarkAttendance appends (name, department, today, status) and returns
	// true when a new row was written, false when the subject is already
	// marked for today.
	MarkAttendance(name, department, status string) (bool, error)

	// MarkedToday returns the set of names with a record dated today.
	MarkedToday() (map[string]struct{}, error)

	// Path returns the absolute path of the ledger artifact.
	Path() string
}
