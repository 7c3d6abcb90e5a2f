package store

import "context"

type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*Store, error)

	// List pages through stores ordered by id, starting after afterID.
	List(ctx context.Context, afterID string, limit int) ([]Store, error)

	// ManagedStore resolves the store an employee acts for: the store they
	// direct or are HR for, else the store they belong to. Returns
	// ErrStoreNotFound when there is none.
	ManagedStore(ctx context.Context, employeeID string) (*Store, error)

	// EmployeeStore returns the store the employee is affiliated with.
	EmployeeStore(ctx context.Context, employeeID string) (*Store, error)

	GetCalendar(ctx context.Context, storeID string) (*Calendar, error)
	UpdateWeeklyOff(ctx context.Context, storeID string, day string) error
	CreateHoliday(ctx context.Context, storeID string, h *Holiday) error
	DeleteHoliday(ctx context.Context, storeID string, holidayID string) error
}

// CalendarCache is a read-through cache for calendars. Get returns nil, nil on a miss.
type CalendarCache interface {
	Get(ctx context.Context, storeID string) (*Calendar, error)
	Set(ctx context.Context, cal *Calendar) error
	Delete(ctx context.Context, storeID string) error
}
