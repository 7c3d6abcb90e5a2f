package salary

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

var overtimeMultiplier = decimal.NewFromFloat(1.5)

type Input struct {
	BasicSalary    decimal.Decimal
	PerHourSalary  decimal.Decimal
	OvertimeRate   decimal.Decimal
	Bonus          decimal.Decimal
	DeductionHours float64
	DeductionDays  float64
	OvertimeHours  float64
}

// PeriodData is the persisted state a salary period is computed from.
type PeriodData struct {
	Month              int
	Year               int
	ExpectedDailyHours float64
	Attendance         []attendance.Attendance
	// LeaveDates holds the dateutil.Key of every full-day approved leave date.
	LeaveDates            map[string]struct{}
	ApprovedOvertimeHours float64
	Expenses              decimal.Decimal
}

type Result struct {
	PerDaySalary       decimal.Decimal
	AbsentDays         float64
	AbsentHours        float64
	TotalOvertimeHours float64
	TotalDeductions    decimal.Decimal
	OvertimePayable    decimal.Decimal
	Expenses           decimal.Decimal
	SalaryGT           decimal.Decimal
	NetSalary          decimal.Decimal
}

// Calculate derives every output field from in and data. It has no side effects.
func Calculate(in Input, data PeriodData) Result {
	dailyHours := data.ExpectedDailyHours
	if dailyHours <= 0 {
		dailyHours = 8
	}

	// absentHours includes whole absent days; only shortfallHours on worked
	// days is charged per hour.
	var absentDays, absentHours, shortfallHours float64
	for i := range data.Attendance {
		a := &data.Attendance[i]
		if _, onLeave := data.LeaveDates[dateutil.Key(a.Date)]; onLeave {
			continue
		}
		switch {
		case a.Status == attendance.StatusAbsent:
			absentDays++
			absentHours += dailyHours
		case a.Status == attendance.StatusPresent && a.InTime != nil && a.OutTime != nil:
			if worked := a.WorkedHours(); worked < dailyHours {
				absentHours += dailyHours - worked
				shortfallHours += dailyHours - worked
			}
		}
	}

	overtimeHours := data.ApprovedOvertimeHours
	if in.OvertimeHours != 0 {
		overtimeHours = in.OvertimeHours
	}

	daysInMonth := dateutil.DaysInMonth(data.Month, data.Year)
	perDay := in.BasicSalary.Div(decimal.NewFromInt(int64(daysInMonth)))

	deductions := perDay.Mul(decimal.NewFromFloat(absentDays)).
		Add(in.PerHourSalary.Mul(decimal.NewFromFloat(shortfallHours))).
		Add(in.PerHourSalary.Mul(decimal.NewFromFloat(in.DeductionHours))).
		Add(perDay.Mul(decimal.NewFromFloat(in.DeductionDays)))

	rate := in.OvertimeRate
	if rate.IsZero() {
		rate = in.PerHourSalary.Mul(overtimeMultiplier)
	}
	overtimePayable := rate.Mul(decimal.NewFromFloat(overtimeHours))

	gross := in.BasicSalary.Add(overtimePayable).Add(in.Bonus)
	net := gross.Sub(deductions)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Result{
		PerDaySalary:       perDay.Round(2),
		AbsentDays:         absentDays,
		AbsentHours:        roundHours(absentHours),
		TotalOvertimeHours: overtimeHours,
		TotalDeductions:    deductions.Round(2),
		OvertimePayable:    overtimePayable.Round(2),
		Expenses:           data.Expenses.Round(2),
		SalaryGT:           gross.Round(2),
		NetSalary:          net.Round(2),
	}
}

func roundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

// LeaveDateSet builds PeriodData.LeaveDates from dates.
func LeaveDateSet(dates []time.Time) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[dateutil.Key(d)] = struct{}{}
	}
	return set
}
