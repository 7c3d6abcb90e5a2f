package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/retailhr/hr-backend-go/internal/domain/store"
)

type StoreRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *StoreRepository {
	return &StoreRepository{db: db}
}

func (r *StoreRepository) GetByID(ctx context.Context, id string) (*store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.st.stores[id]
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	return &s, nil
}

func (r *StoreRepository) List(ctx context.Context, afterID string, limit int) ([]store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []store.Store
	for _, s := range r.db.st.stores {
		if s.ID > afterID {
			all = append(all, s)
		}
	}
	slices.SortFunc(all, func(a, b store.Store) int { return cmp.Compare(a.ID, b.ID) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *StoreRepository) ManagedStore(ctx context.Context, employeeID string) (*store.Store, error) {
	r.db.mu.Lock()
	for _, s := range r.db.st.stores {
		if (s.DirectorID != nil && *s.DirectorID == employeeID) || (s.HRID != nil && *s.HRID == employeeID) {
			r.db.mu.Unlock()
			return &s, nil
		}
	}
	r.db.mu.Unlock()
	return r.EmployeeStore(ctx, employeeID)
}

func (r *StoreRepository) EmployeeStore(ctx context.Context, employeeID string) (*store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.st.employees[employeeID]
	if !ok || e.StoreID == nil {
		return nil, store.ErrStoreNotFound
	}
	s, ok := r.db.st.stores[*e.StoreID]
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	return &s, nil
}

func (r *StoreRepository) GetCalendar(ctx context.Context, storeID string) (*store.Calendar, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.st.calendars[storeID]
	if !ok {
		return nil, store.ErrCalendarNotFound
	}
	c.Holidays = slices.Clone(c.Holidays)
	return &c, nil
}

func (r *StoreRepository) UpdateWeeklyOff(ctx context.Context, storeID string, day string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.st.calendars[storeID]
	if !ok {
		return store.ErrCalendarNotFound
	}
	c.WeeklyOff = day
	r.db.st.calendars[storeID] = c
	return nil
}

func (r *StoreRepository) CreateHoliday(ctx context.Context, storeID string, h *store.Holiday) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.st.calendars[storeID]
	if !ok {
		return store.ErrCalendarNotFound
	}
	h.ID = r.db.nextID("hol")
	h.CalendarID = c.ID
	c.Holidays = append(slices.Clone(c.Holidays), *h)
	r.db.st.calendars[storeID] = c
	return nil
}

func (r *StoreRepository) DeleteHoliday(ctx context.Context, storeID string, holidayID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.st.calendars[storeID]
	if !ok {
		return store.ErrCalendarNotFound
	}
	i := slices.IndexFunc(c.Holidays, func(h store.Holiday) bool { return h.ID == holidayID })
	if i < 0 {
		return store.ErrHolidayNotFound
	}
	c.Holidays = slices.Delete(slices.Clone(c.Holidays), i, i+1)
	r.db.st.calendars[storeID] = c
	return nil
}
