package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Salary is the monthly compensation record of one employee. Input fields are
// set by HR; the rest is derived by Calculate on every change.
type Salary struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int

	// Inputs
	BasicSalary    decimal.Decimal
	PerHourSalary  decimal.Decimal
	OvertimeRate   decimal.Decimal
	Bonus          decimal.Decimal
	DeductionHours float64
	DeductionDays  float64
	OvertimeHours  float64 // manual override; zero means use approved requests

	// Derived
	PerDaySalary       decimal.Decimal
	AbsentDays         float64
	AbsentHours        float64
	TotalOvertimeHours float64
	TotalDeductions    decimal.Decimal
	OvertimePayable    decimal.Decimal
	Expenses           decimal.Decimal
	SalaryGT           decimal.Decimal
	NetSalary          decimal.Decimal

	IsPublished bool
	CreatedBy   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input returns the HR-entered fields.
func (s *Salary) Input() Input {
	return Input{
		BasicSalary:    s.BasicSalary,
		PerHourSalary:  s.PerHourSalary,
		OvertimeRate:   s.OvertimeRate,
		Bonus:          s.Bonus,
		DeductionHours: s.DeductionHours,
		DeductionDays:  s.DeductionDays,
		OvertimeHours:  s.OvertimeHours,
	}
}

// Apply copies a computed result into the record.
func (s *Salary) Apply(r Result) {
	s.PerDaySalary = r.PerDaySalary
	s.AbsentDays = r.AbsentDays
	s.AbsentHours = r.AbsentHours
	s.TotalOvertimeHours = r.TotalOvertimeHours
	s.TotalDeductions = r.TotalDeductions
	s.OvertimePayable = r.OvertimePayable
	s.Expenses = r.Expenses
	s.SalaryGT = r.SalaryGT
	s.NetSalary = r.NetSalary
}
