package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyPunchedIn   = errors.New("already punched in for this date")
	ErrNotPunchedIn       = errors.New("no punch-in recorded for this date")
	ErrAlreadyPunchedOut  = errors.New("already punched out for this date")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance record already exists")
	ErrDateRangeTooLong   = errors.New("date range exceeds the maximum of 366 days")
)
