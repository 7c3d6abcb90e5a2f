package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
)

const storePageSize = 100

type CalendarServiceImpl struct {
	storeRepo store.StoreRepository
	cache     store.CalendarCache
	gate      user.Gate
}

// NewCalendarService builds the calendar service. cache may be nil.
func NewCalendarService(storeRepo store.StoreRepository, cache store.CalendarCache, gate user.Gate) store.CalendarService {
	return &CalendarServiceImpl{
		storeRepo: storeRepo,
		cache:     cache,
		gate:      gate,
	}
}

// Calendar implements store.CalendarOracle. An empty storeID yields a
// calendar in which every day is a working day.
func (s *CalendarServiceImpl) Calendar(ctx context.Context, storeID string) (*store.Calendar, error) {
	if storeID == "" {
		return store.EmptyCalendar(), nil
	}

	if s.cache != nil {
		cal, err := s.cache.Get(ctx, storeID)
		if err != nil {
			slog.Warn("calendar cache read failed", "store_id", storeID, "error", err)
		} else if cal != nil {
			return cal, nil
		}
	}

	cal, err := s.storeRepo.GetCalendar(ctx, storeID)
	if errors.Is(err, store.ErrCalendarNotFound) {
		return &store.Calendar{StoreID: storeID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cal); err != nil {
			slog.Warn("calendar cache write failed", "store_id", storeID, "error", err)
		}
	}
	return cal, nil
}

func (s *CalendarServiceImpl) ListStores(ctx context.Context) ([]store.StoreResponse, error) {
	if err := s.gate.CheckPermission(ctx, user.IdentityFromContext(ctx), user.ActionViewCalendar, user.CheckOptions{}); err != nil {
		return nil, err
	}

	var out []store.StoreResponse
	after := ""
	for {
		page, err := s.storeRepo.List(ctx, after, storePageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list stores: %w", err)
		}
		for i := range page {
			out = append(out, toStoreResponse(&page[i]))
		}
		if len(page) < storePageSize {
			return out, nil
		}
		after = page[len(page)-1].ID
	}
}

func (s *CalendarServiceImpl) GetCalendar(ctx context.Context, storeID string) (*store.CalendarResponse, error) {
	if err := s.gate.CheckPermission(ctx, user.IdentityFromContext(ctx), user.ActionViewCalendar, user.CheckOptions{}); err != nil {
		return nil, err
	}
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, err
	}
	cal, err := s.Calendar(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return toCalendarResponse(cal), nil
}

func (s *CalendarServiceImpl) UpdateCalendar(ctx context.Context, storeID string, req store.UpdateCalendarRequest) (*store.CalendarResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkManage(ctx, storeID); err != nil {
		return nil, err
	}

	day, _ := dateutil.ParseWeekday(req.WeeklyOff)
	if err := s.storeRepo.UpdateWeeklyOff(ctx, storeID, day.String()); err != nil {
		return nil, fmt.Errorf("failed to update weekly off: %w", err)
	}
	s.invalidate(ctx, storeID)

	slog.Info("weekly off updated", "store_id", storeID, "weekly_off", day.String())
	return s.GetCalendar(ctx, storeID)
}

func (s *CalendarServiceImpl) CreateHoliday(ctx context.Context, storeID string, req store.CreateHolidayRequest) (*store.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkManage(ctx, storeID); err != nil {
		return nil, err
	}

	date, _ := validator.IsValidDate(req.Date)
	h := &store.Holiday{
		Date:        date,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.storeRepo.CreateHoliday(ctx, storeID, h); err != nil {
		return nil, fmt.Errorf("failed to create holiday: %w", err)
	}
	s.invalidate(ctx, storeID)

	resp := toHolidayResponse(h)
	return &resp, nil
}

func (s *CalendarServiceImpl) DeleteHoliday(ctx context.Context, storeID string, holidayID string) error {
	if err := s.checkManage(ctx, storeID); err != nil {
		return err
	}
	if err := s.storeRepo.DeleteHoliday(ctx, storeID, holidayID); err != nil {
		if errors.Is(err, store.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	s.invalidate(ctx, storeID)
	return nil
}

func (s *CalendarServiceImpl) checkManage(ctx context.Context, storeID string) error {
	if err := s.gate.CheckPermission(ctx, user.IdentityFromContext(ctx), user.ActionManageCalendar, user.CheckOptions{}); err != nil {
		return err
	}
	_, err := s.storeRepo.GetByID(ctx, storeID)
	return err
}

func (s *CalendarServiceImpl) invalidate(ctx context.Context, storeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, storeID); err != nil {
		slog.Warn("calendar cache invalidation failed", "store_id", storeID, "error", err)
	}
}

func toStoreResponse(st *store.Store) store.StoreResponse {
	return store.StoreResponse{
		ID:                 st.ID,
		Name:               st.Name,
		LateEntryThreshold: st.LateEntryThreshold,
		EarlyExitThreshold: st.EarlyExitThreshold,
		ExpectedInTime:     clock(st.ExpectedInTime),
		ExpectedOutTime:    clock(st.ExpectedOutTime),
	}
}

func toCalendarResponse(cal *store.Calendar) *store.CalendarResponse {
	resp := &store.CalendarResponse{
		StoreID:   cal.StoreID,
		WeeklyOff: cal.WeeklyOff,
		Holidays:  make([]store.HolidayResponse, 0, len(cal.Holidays)),
	}
	for i := range cal.Holidays {
		resp.Holidays = append(resp.Holidays, toHolidayResponse(&cal.Holidays[i]))
	}
	return resp
}

func toHolidayResponse(h *store.Holiday) store.HolidayResponse {
	return store.HolidayResponse{
		ID:          h.ID,
		Date:        dateutil.Key(h.Date),
		Name:        h.Name,
		Description: h.Description,
	}
}

func clock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}
