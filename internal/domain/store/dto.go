package store

import (
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
)

type UpdateCalendarRequest struct {
	WeeklyOff string `json:"weekly_off" validate:"required"`
}

func (r *UpdateCalendarRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) == 0 {
		if _, ok := dateutil.ParseWeekday(r.WeeklyOff); !ok {
			errs.Add("weekly_off", "must be a weekday name such as Sunday")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateHolidayRequest struct {
	Date        string  `json:"date" validate:"required,date"`
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type StoreResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	LateEntryThreshold int     `json:"late_entry_threshold"`
	EarlyExitThreshold int     `json:"early_exit_threshold"`
	ExpectedInTime     *string `json:"expected_in_time,omitempty"`
	ExpectedOutTime    *string `json:"expected_out_time,omitempty"`
}

type HolidayResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CalendarResponse struct {
	StoreID   string            `json:"store_id"`
	WeeklyOff string            `json:"weekly_off"`
	Holidays  []HolidayResponse `json:"holidays"`
}
