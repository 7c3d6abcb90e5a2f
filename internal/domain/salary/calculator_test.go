package salary

import (
	"testing"
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour, minute int) *time.Time {
	t := time.Date(2025, 6, d, hour, minute, 0, 0, time.UTC)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate_TwoAbsentDays(t *testing.T) {
	in := Input{BasicSalary: dec("30000"), PerHourSalary: dec("150")}
	data := PeriodData{
		Month: 6, Year: 2025,
		Attendance: []attendance.Attendance{
			{Date: day(2), Status: attendance.StatusAbsent},
			{Date: day(3), Status: attendance.StatusAbsent},
			{Date: day(4), Status: attendance.StatusPresent, InTime: at(4, 9, 0), OutTime: at(4, 17, 0)},
		},
	}

	got := Calculate(in, data)

	assert.True(t, got.PerDaySalary.Equal(dec("1000")), got.PerDaySalary.String())
	assert.Equal(t, 2.0, got.AbsentDays)
	assert.Equal(t, 16.0, got.AbsentHours)
	assert.True(t, got.TotalDeductions.Equal(dec("2000")), got.TotalDeductions.String())
	assert.True(t, got.SalaryGT.Equal(dec("30000")))
	assert.True(t, got.NetSalary.Equal(dec("28000")), got.NetSalary.String())
}

func TestCalculate_ShortfallChargedPerHour(t *testing.T) {
	in := Input{BasicSalary: dec("30000"), PerHourSalary: dec("150")}
	data := PeriodData{
		Month: 6, Year: 2025,
		ExpectedDailyHours: 9,
		Attendance: []attendance.Attendance{
			{Date: day(2), Status: attendance.StatusPresent, InTime: at(2, 10, 0), OutTime: at(2, 16, 0)},
		},
	}

	got := Calculate(in, data)

	assert.Equal(t, 0.0, got.AbsentDays)
	assert.Equal(t, 3.0, got.AbsentHours)
	assert.True(t, got.TotalDeductions.Equal(dec("450")), got.TotalDeductions.String())
}

func TestCalculate_FullDayLeaveIsExcluded(t *testing.T) {
	in := Input{BasicSalary: dec("30000"), PerHourSalary: dec("150")}
	data := PeriodData{
		Month: 6, Year: 2025,
		Attendance: []attendance.Attendance{
			{Date: day(2), Status: attendance.StatusAbsent},
			{Date: day(3), Status: attendance.StatusAbsent},
		},
		LeaveDates: LeaveDateSet([]time.Time{day(3)}),
	}

	got := Calculate(in, data)

	assert.Equal(t, 1.0, got.AbsentDays)
	assert.True(t, got.NetSalary.Equal(dec("29000")))
}

func TestCalculate_Overtime(t *testing.T) {
	base := Input{BasicSalary: dec("30000"), PerHourSalary: dec("100")}
	data := PeriodData{Month: 6, Year: 2025, ApprovedOvertimeHours: 4}

	t.Run("approved hours at 1.5x per-hour fallback", func(t *testing.T) {
		got := Calculate(base, data)
		assert.Equal(t, 4.0, got.TotalOvertimeHours)
		assert.True(t, got.OvertimePayable.Equal(dec("600")), got.OvertimePayable.String())
		assert.True(t, got.SalaryGT.Equal(dec("30600")))
	})

	t.Run("explicit rate", func(t *testing.T) {
		in := base
		in.OvertimeRate = dec("200")
		got := Calculate(in, data)
		assert.True(t, got.OvertimePayable.Equal(dec("800")))
	})

	t.Run("override wins over approved sum", func(t *testing.T) {
		in := base
		in.OvertimeHours = 2
		got := Calculate(in, data)
		assert.Equal(t, 2.0, got.TotalOvertimeHours)
		assert.True(t, got.OvertimePayable.Equal(dec("300")))
	})
}

func TestCalculate_BonusAndManualDeductions(t *testing.T) {
	in := Input{
		BasicSalary:    dec("30000"),
		PerHourSalary:  dec("150"),
		Bonus:          dec("500"),
		DeductionHours: 2,
		DeductionDays:  1,
	}

	got := Calculate(in, PeriodData{Month: 6, Year: 2025, Expenses: dec("120.5")})

	assert.True(t, got.TotalDeductions.Equal(dec("1300")), got.TotalDeductions.String())
	assert.True(t, got.SalaryGT.Equal(dec("30500")))
	assert.True(t, got.NetSalary.Equal(dec("29200")))
	assert.True(t, got.Expenses.Equal(dec("120.5")))
}

func TestCalculate_NetNeverNegative(t *testing.T) {
	var rows []attendance.Attendance
	for d := 1; d <= 30; d++ {
		rows = append(rows, attendance.Attendance{Date: day(d), Status: attendance.StatusAbsent})
	}
	in := Input{BasicSalary: dec("30000"), PerHourSalary: dec("150"), DeductionDays: 10, DeductionHours: 40}

	got := Calculate(in, PeriodData{Month: 6, Year: 2025, Attendance: rows})

	assert.True(t, got.TotalDeductions.GreaterThan(got.SalaryGT))
	assert.True(t, got.NetSalary.IsZero())
}
