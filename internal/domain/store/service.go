package store

import "context"

// CalendarOracle answers calendar questions for a store.
type CalendarOracle interface {
	Calendar(ctx context.Context, storeID string) (*Calendar, error)
}

type CalendarService interface {
	CalendarOracle
	ListStores(ctx context.Context) ([]StoreResponse, error)
	GetCalendar(ctx context.Context, storeID string) (*CalendarResponse, error)
	UpdateCalendar(ctx context.Context, storeID string, req UpdateCalendarRequest) (*CalendarResponse, error)
	CreateHoliday(ctx context.Context, storeID string, req CreateHolidayRequest) (*HolidayResponse, error)
	DeleteHoliday(ctx context.Context, storeID string, holidayID string) error
}
