package store

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

type Store struct {
	ID                 string
	Name               string
	LateEntryThreshold int // minutes
	EarlyExitThreshold int // minutes
	ExpectedInTime     *time.Time
	ExpectedOutTime    *time.Time
	DirectorID         *string
	HRID               *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Calendar struct {
	ID        string
	StoreID   string
	WeeklyOff string
	Holidays  []Holiday
}

type Holiday struct {
	ID          string
	CalendarID  string
	Date        time.Time
	Name        string
	Description *string
	CreatedAt   time.Time
}

// EmptyCalendar is used for employees without a store: every day is a working day.
func EmptyCalendar() *Calendar {
	return &Calendar{}
}

// WeeklyOffDay parses the configured weekly-off day name.
func (c *Calendar) WeeklyOffDay() (time.Weekday, bool) {
	if c == nil || c.WeeklyOff == "" {
		return time.Sunday, false
	}
	return dateutil.ParseWeekday(c.WeeklyOff)
}

func (c *Calendar) IsWeeklyOff(date time.Time) bool {
	day, ok := c.WeeklyOffDay()
	return ok && date.UTC().Weekday() == day
}

// IsHoliday reports whether any holiday falls on date. Duplicate holidays on
// the same date are allowed.
func (c *Calendar) IsHoliday(date time.Time) bool {
	if c == nil {
		return false
	}
	key := dateutil.Key(date)
	for _, h := range c.Holidays {
		if dateutil.Key(h.Date) == key {
			return true
		}
	}
	return false
}

func (c *Calendar) IsNonWorkingDay(date time.Time) bool {
	return c.IsWeeklyOff(date) || c.IsHoliday(date)
}
