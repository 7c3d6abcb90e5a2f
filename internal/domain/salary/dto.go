package salary

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateSalaryRequest struct {
	EmployeeID     string           `json:"employee_id" validate:"required"`
	Month          int              `json:"month" validate:"min=1,max=12"`
	Year           int              `json:"year" validate:"min=2000"`
	BasicSalary    decimal.Decimal  `json:"basic_salary"`
	PerHourSalary  decimal.Decimal  `json:"per_hour_salary"`
	OvertimeRate   *decimal.Decimal `json:"overtime_rate,omitempty"`
	Bonus          *decimal.Decimal `json:"bonus,omitempty"`
	DeductionHours float64          `json:"deduction_hours" validate:"gte=0"`
	DeductionDays  float64          `json:"deduction_days" validate:"gte=0"`
	OvertimeHours  float64          `json:"overtime_hours" validate:"gte=0"`
}

func (r *CreateSalaryRequest) Validate() error {
	errs := validator.Struct(r)
	if !r.BasicSalary.IsPositive() {
		errs.Add("basic_salary", "must be greater than 0")
	}
	if !r.PerHourSalary.IsPositive() {
		errs.Add("per_hour_salary", "must be greater than 0")
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs.Add("overtime_rate", "must be non-negative")
	}
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs.Add("bonus", "must be non-negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Input returns the request as calculator input.
func (r *CreateSalaryRequest) Input() Input {
	in := Input{
		BasicSalary:    r.BasicSalary,
		PerHourSalary:  r.PerHourSalary,
		DeductionHours: r.DeductionHours,
		DeductionDays:  r.DeductionDays,
		OvertimeHours:  r.OvertimeHours,
	}
	if r.OvertimeRate != nil {
		in.OvertimeRate = *r.OvertimeRate
	}
	if r.Bonus != nil {
		in.Bonus = *r.Bonus
	}
	return in
}

type UpdateSalaryRequest struct {
	BasicSalary    *decimal.Decimal `json:"basic_salary,omitempty"`
	PerHourSalary  *decimal.Decimal `json:"per_hour_salary,omitempty"`
	OvertimeRate   *decimal.Decimal `json:"overtime_rate,omitempty"`
	Bonus          *decimal.Decimal `json:"bonus,omitempty"`
	DeductionHours *float64         `json:"deduction_hours,omitempty" validate:"omitempty,gte=0"`
	DeductionDays  *float64         `json:"deduction_days,omitempty" validate:"omitempty,gte=0"`
	OvertimeHours  *float64         `json:"overtime_hours,omitempty" validate:"omitempty,gte=0"`
	IsPublished    *bool            `json:"is_published,omitempty"`
}

func (r *UpdateSalaryRequest) Validate() error {
	errs := validator.Struct(r)
	if r.BasicSalary != nil && !r.BasicSalary.IsPositive() {
		errs.Add("basic_salary", "must be greater than 0")
	}
	if r.PerHourSalary != nil && !r.PerHourSalary.IsPositive() {
		errs.Add("per_hour_salary", "must be greater than 0")
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs.Add("overtime_rate", "must be non-negative")
	}
	if r.Bonus != nil && r.Bonus.IsNegative() {
		errs.Add("bonus", "must be non-negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyTo merges the set fields into s.
func (r *UpdateSalaryRequest) ApplyTo(s *Salary) {
	if r.BasicSalary != nil {
		s.BasicSalary = *r.BasicSalary
	}
	if r.PerHourSalary != nil {
		s.PerHourSalary = *r.PerHourSalary
	}
	if r.OvertimeRate != nil {
		s.OvertimeRate = *r.OvertimeRate
	}
	if r.Bonus != nil {
		s.Bonus = *r.Bonus
	}
	if r.DeductionHours != nil {
		s.DeductionHours = *r.DeductionHours
	}
	if r.DeductionDays != nil {
		s.DeductionDays = *r.DeductionDays
	}
	if r.OvertimeHours != nil {
		s.OvertimeHours = *r.OvertimeHours
	}
	if r.IsPublished != nil {
		s.IsPublished = *r.IsPublished
	}
}

type ListSalaryQuery struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Month      int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year       int    `json:"year,omitempty" validate:"omitempty,min=2000"`
}

func (q *ListSalaryQuery) Validate() error {
	if errs := validator.Struct(q); len(errs) > 0 {
		return errs
	}
	return nil
}

type SalaryResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	Month              int             `json:"month"`
	Year               int             `json:"year"`
	BasicSalary        decimal.Decimal `json:"basic_salary"`
	PerHourSalary      decimal.Decimal `json:"per_hour_salary"`
	OvertimeRate       decimal.Decimal `json:"overtime_rate"`
	Bonus              decimal.Decimal `json:"bonus"`
	DeductionHours     float64         `json:"deduction_hours"`
	DeductionDays      float64         `json:"deduction_days"`
	OvertimeHours      float64         `json:"overtime_hours"`
	PerDaySalary       decimal.Decimal `json:"per_day_salary"`
	AbsentDays         float64         `json:"absent_days"`
	AbsentHours        float64         `json:"absent_hours"`
	TotalOvertimeHours float64         `json:"total_overtime_hours"`
	TotalDeductions    decimal.Decimal `json:"total_deductions"`
	OvertimePayable    decimal.Decimal `json:"overtime_payable"`
	Expenses           decimal.Decimal `json:"expenses"`
	SalaryGT           decimal.Decimal `json:"salary_gt"`
	NetSalary          decimal.Decimal `json:"net_salary"`
	IsPublished        bool            `json:"is_published"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func ToResponse(s *Salary) SalaryResponse {
	return SalaryResponse{
		ID:                 s.ID,
		EmployeeID:         s.EmployeeID,
		Month:              s.Month,
		Year:               s.Year,
		BasicSalary:        s.BasicSalary,
		PerHourSalary:      s.PerHourSalary,
		OvertimeRate:       s.OvertimeRate,
		Bonus:              s.Bonus,
		DeductionHours:     s.DeductionHours,
		DeductionDays:      s.DeductionDays,
		OvertimeHours:      s.OvertimeHours,
		PerDaySalary:       s.PerDaySalary,
		AbsentDays:         s.AbsentDays,
		AbsentHours:        s.AbsentHours,
		TotalOvertimeHours: s.TotalOvertimeHours,
		TotalDeductions:    s.TotalDeductions,
		OvertimePayable:    s.OvertimePayable,
		Expenses:           s.Expenses,
		SalaryGT:           s.SalaryGT,
		NetSalary:          s.NetSalary,
		IsPublished:        s.IsPublished,
		UpdatedAt:          s.UpdatedAt,
	}
}
