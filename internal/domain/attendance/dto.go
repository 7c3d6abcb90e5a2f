package attendance

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
)

// MaxRangeDays bounds a single attendance listing.
const MaxRangeDays = 366

// PunchRequest punches the caller, or EmployeeID when set, for Date
// (YYYY-MM-DD, defaulting to today).
type PunchRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Date       string `json:"date,omitempty" validate:"omitempty,date"`
}

func (r *PunchRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

// ListAttendanceQuery lists attendance for one employee, or for every visible
// employee when EmployeeID is empty.
type ListAttendanceQuery struct {
	EmployeeID string `json:"employee_id,omitempty"`
	StartDate  string `json:"start_date" validate:"required,date"`
	EndDate    string `json:"end_date" validate:"required,date"`
}

func (q *ListAttendanceQuery) Validate() error {
	errs := validator.Struct(q)
	if len(errs) == 0 {
		start, _ := validator.IsValidDate(q.StartDate)
		end, _ := validator.IsValidDate(q.EndDate)
		if end.Before(start) {
			errs.Add("end_date", "must not be before start_date")
		} else if len(dateutil.Days(start, end)) > MaxRangeDays {
			errs.Add("end_date", ErrDateRangeTooLong.Error())
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MarkNonWorkingDayRequest struct {
	Date string `json:"date" validate:"required,date"`
	Kind string `json:"kind" validate:"required,oneof=holiday weekday_off"`
}

func (r *MarkNonWorkingDayRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID          string     `json:"id,omitempty"`
	EmployeeID  string     `json:"employee_id"`
	Date        string     `json:"date"`
	Status      Status     `json:"status"`
	InTime      *time.Time `json:"in_time,omitempty"`
	OutTime     *time.Time `json:"out_time,omitempty"`
	IsLateEntry bool       `json:"is_late_entry"`
	IsEarlyExit bool       `json:"is_early_exit"`
	Synthesized bool       `json:"synthesized,omitempty"`
}

// In returns a copy with the punch times expressed in loc.
func (r AttendanceResponse) In(loc *time.Location) AttendanceResponse {
	if r.InTime != nil {
		t := r.InTime.In(loc)
		r.InTime = &t
	}
	if r.OutTime != nil {
		t := r.OutTime.In(loc)
		r.OutTime = &t
	}
	return r
}

func ToResponse(a *Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		Date:        dateutil.Key(a.Date),
		Status:      a.Status,
		InTime:      a.InTime,
		OutTime:     a.OutTime,
		IsLateEntry: a.IsLateEntry,
		IsEarlyExit: a.IsEarlyExit,
	}
}
