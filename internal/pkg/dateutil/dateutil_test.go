package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDays_InclusiveAndNormalised(t *testing.T) {
	from := time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC)
	to := time.Date(2025, 6, 12, 1, 0, 0, 0, time.UTC)

	days := Days(from, to)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-06-10", Key(days[0]))
	assert.Equal(t, "2025-06-12", Key(days[2]))
	assert.Nil(t, Days(to, from))
}

func TestDateIn(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on June 1st is already June 2nd in India.
	instant := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-02", Key(DateIn(instant, ist)))
	assert.Equal(t, "2025-06-01", Key(DateIn(instant, time.UTC)))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2, 2024)
	assert.Equal(t, "2024-02-01", Key(start))
	assert.Equal(t, "2024-02-29", Key(end))
	assert.Equal(t, 30, DaysInMonth(6, 2025))
}

func TestShiftHours(t *testing.T) {
	in := time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC)
	out := time.Date(0, 1, 1, 19, 30, 0, 0, time.UTC)

	assert.InDelta(t, 9.5, ShiftHours(&in, &out, 8), 1e-9)
	assert.Equal(t, 8.0, ShiftHours(nil, &out, 8))
	assert.Equal(t, 9.0, ShiftHours(&out, &in, 9))
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday(" sunday ")
	assert.True(t, ok)
	assert.Equal(t, time.Sunday, d)

	_, ok = ParseWeekday("Funday")
	assert.False(t, ok)
}
