package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
)

const calendarKeyPrefix = "calendar:"

// CalendarCache stores store calendars as JSON in Redis.
type CalendarCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCalendarCache(rdb *redis.Client, ttl time.Duration) *CalendarCache {
	return &CalendarCache{rdb: rdb, ttl: ttl}
}

func calendarKey(storeID string) string {
	return calendarKeyPrefix + storeID
}

type cachedHoliday struct {
	ID          string    `json:"id"`
	CalendarID  string    `json:"calendar_id"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type cachedCalendar struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	WeeklyOff string          `json:"weekly_off"`
	Holidays  []cachedHoliday `json:"holidays"`
}

func encodeCalendar(cal *store.Calendar) ([]byte, error) {
	c := cachedCalendar{
		ID:        cal.ID,
		StoreID:   cal.StoreID,
		WeeklyOff: cal.WeeklyOff,
		Holidays:  make([]cachedHoliday, 0, len(cal.Holidays)),
	}
	for _, h := range cal.Holidays {
		c.Holidays = append(c.Holidays, cachedHoliday(h))
	}
	return json.Marshal(c)
}

func decodeCalendar(data []byte) (*store.Calendar, error) {
	var c cachedCalendar
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	cal := &store.Calendar{
		ID:        c.ID,
		StoreID:   c.StoreID,
		WeeklyOff: c.WeeklyOff,
		Holidays:  make([]store.Holiday, 0, len(c.Holidays)),
	}
	for _, h := range c.Holidays {
		cal.Holidays = append(cal.Holidays, store.Holiday(h))
	}
	return cal, nil
}

// Get returns nil, nil on a miss.
func (c *CalendarCache) Get(ctx context.Context, storeID string) (*store.Calendar, error) {
	data, err := c.rdb.Get(ctx, calendarKey(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached calendar: %w", err)
	}

	cal, err := decodeCalendar(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached calendar: %w", err)
	}
	return cal, nil
}

func (c *CalendarCache) Set(ctx context.Context, cal *store.Calendar) error {
	data, err := encodeCalendar(cal)
	if err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	if err := c.rdb.Set(ctx, calendarKey(cal.StoreID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache calendar: %w", err)
	}
	return nil
}

func (c *CalendarCache) Delete(ctx context.Context, storeID string) error {
	if err := c.rdb.Del(ctx, calendarKey(storeID)).Err(); err != nil {
		return fmt.Errorf("failed to evict calendar: %w", err)
	}
	return nil
}

var _ store.CalendarCache = (*CalendarCache)(nil)
