package store

import "errors"

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrCalendarNotFound = errors.New("calendar not found")
	ErrHolidayNotFound  = errors.New("holiday not found")
)
