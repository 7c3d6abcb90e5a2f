package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
	StatusLeave      Status = "leave"
	StatusWeekdayOff Status = "weekday_off"
	StatusHoliday    Status = "holiday"
)

// Attendance is one row per employee per calendar date. Date is a UTC midnight.
type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Status      Status
	InTime      *time.Time
	OutTime     *time.Time
	IsLateEntry bool
	IsEarlyExit bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WorkedHours returns out minus in, or 0 when either punch is missing.
func (a *Attendance) WorkedHours() float64 {
	if a.InTime == nil || a.OutTime == nil || !a.OutTime.After(*a.InTime) {
		return 0
	}
	return a.OutTime.Sub(*a.InTime).Hours()
}

// NonWorkingKind selects the status written by the bulk non-working-day run.
type NonWorkingKind string

const (
	KindHoliday    NonWorkingKind = "holiday"
	KindWeekdayOff NonWorkingKind = "weekday_off"
	// KindAuto picks holiday when the store has a holiday on the date and
	// weekday_off otherwise.
	KindAuto NonWorkingKind = "auto"
)

// StoreFailure records a store the bulk run gave up on.
type StoreFailure struct {
	StoreID  string `json:"store_id"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error"`
}

// BulkMarkResult summarises one bulk non-working-day run.
type BulkMarkResult struct {
	Date            string         `json:"date"`
	Kind            NonWorkingKind `json:"kind"`
	StoresScanned   int            `json:"stores_scanned"`
	StoresMatched   int            `json:"stores_matched"`
	StoresSucceeded int            `json:"stores_succeeded"`
	StoresFailed    int            `json:"stores_failed"`
	RowsCreated     int64          `json:"rows_created"`
	Failures        []StoreFailure `json:"failures,omitempty"`
}
