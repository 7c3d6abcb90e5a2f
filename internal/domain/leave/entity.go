package leave

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Stage is the current step of the two-stage approval.
type Stage string

const (
	StageCoordinator Stage = "coordinator"
	StageManager     Stage = "manager"
	StageApproved    Stage = "approved"
	StageRejected    Stage = "rejected"
)

// HalfPeriod names the half of a boundary day that is taken as leave.
type HalfPeriod string

const (
	FirstHalf  HalfPeriod = "first_half"
	SecondHalf HalfPeriod = "second_half"
)

type Leave struct {
	ID                    string
	EmployeeID            string
	StartDate             time.Time
	EndDate               time.Time
	StartHalfDay          bool
	StartHalf             *HalfPeriod
	EndHalfDay            bool
	EndHalf               *HalfPeriod
	Reason                string
	Status                Status
	Stage                 Stage
	CoordinatorApproverID *string
	CoordinatorApprovedAt *time.Time
	ManagerApproverID     *string
	ManagerApprovedAt     *time.Time
	EffectiveDays         float64
	ReportingManagerID    *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// History is one append-only row per leave transition.
type History struct {
	ID        string
	LeaveID   string
	Status    Status
	Stage     Stage
	ActorID   string
	Remark    string
	CreatedAt time.Time
}

func (l *Leave) IsPending() bool {
	return l.Status == StatusPending
}

func (l *Leave) singleDay() bool {
	return dateutil.Key(l.StartDate) == dateutil.Key(l.EndDate)
}

// IsHalfDay reports whether date is a boundary day on which only half is taken.
// On a multi-day leave the start day counts half only when the second half is
// taken, and the end day only when the first half is taken.
func (l *Leave) IsHalfDay(date time.Time) bool {
	key := dateutil.Key(date)
	if l.singleDay() {
		return key == dateutil.Key(l.StartDate) && (l.StartHalfDay || l.EndHalfDay)
	}
	if l.StartHalfDay && key == dateutil.Key(l.StartDate) && l.StartHalf != nil && *l.StartHalf == SecondHalf {
		return true
	}
	if l.EndHalfDay && key == dateutil.Key(l.EndDate) && l.EndHalf != nil && *l.EndHalf == FirstHalf {
		return true
	}
	return false
}

// DayWeight is the leave weight of one date: 0 on non-working days, 0.5 on
// half-day boundaries, 1 otherwise.
type DayWeight struct {
	Date   time.Time
	Weight float64
}

func (l *Leave) DayWeights(cal *store.Calendar) []DayWeight {
	days := dateutil.Days(l.StartDate, l.EndDate)
	weights := make([]DayWeight, 0, len(days))
	for _, d := range days {
		w := 1.0
		switch {
		case cal.IsNonWorkingDay(d):
			w = 0
		case l.IsHalfDay(d):
			w = 0.5
		}
		weights = append(weights, DayWeight{Date: d, Weight: w})
	}
	return weights
}

// CalculateEffectiveDays sums DayWeights.
func (l *Leave) CalculateEffectiveDays(cal *store.Calendar) float64 {
	var total float64
	for _, dw := range l.DayWeights(cal) {
		total += dw.Weight
	}
	return total
}

// LeaveDates returns the working, full-leave dates that are backfilled as
// leave attendance on approval.
func (l *Leave) LeaveDates(cal *store.Calendar) []time.Time {
	var dates []time.Time
	for _, dw := range l.DayWeights(cal) {
		if dw.Weight == 1 {
			dates = append(dates, dw.Date)
		}
	}
	return dates
}

// FullDayDates returns every date of the range except half-day boundaries,
// regardless of the calendar.
func (l *Leave) FullDayDates() []time.Time {
	var dates []time.Time
	for _, d := range dateutil.Days(l.StartDate, l.EndDate) {
		if !l.IsHalfDay(d) {
			dates = append(dates, d)
		}
	}
	return dates
}
