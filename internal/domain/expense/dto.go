package expense

import (
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateExpenseRequest struct {
	EmployeeID           string           `json:"employee_id,omitempty"`
	Date                 string           `json:"date" validate:"required,date"`
	InitialReading       float64          `json:"initial_reading" validate:"gte=0"`
	FinalReading         float64          `json:"final_reading" validate:"gte=0"`
	Rate                 decimal.Decimal  `json:"rate"`
	MiscellaneousExpense *decimal.Decimal `json:"miscellaneous_expense,omitempty"`
	Remarks              *string          `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

func (r *CreateExpenseRequest) Validate() error {
	errs := validator.Struct(r)
	if r.FinalReading < r.InitialReading {
		errs.Add("final_reading", "must not be below initial_reading")
	}
	if r.Rate.IsNegative() {
		errs.Add("rate", "must be non-negative")
	}
	if r.MiscellaneousExpense != nil && r.MiscellaneousExpense.IsNegative() {
		errs.Add("miscellaneous_expense", "must be non-negative")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListExpenseQuery struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Month      int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year       int    `json:"year,omitempty" validate:"omitempty,min=2000"`
}

func (q *ListExpenseQuery) Validate() error {
	errs := validator.Struct(q)
	if (q.Month == 0) != (q.Year == 0) {
		errs.Add("month", "month and year must be given together")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExpenseResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	Date                 string          `json:"date"`
	InitialReading       float64         `json:"initial_reading"`
	FinalReading         float64         `json:"final_reading"`
	Rate                 decimal.Decimal `json:"rate"`
	Distance             float64         `json:"distance"`
	FuelTotal            decimal.Decimal `json:"fuel_total"`
	MiscellaneousExpense decimal.Decimal `json:"miscellaneous_expense"`
	Amount               decimal.Decimal `json:"amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Remarks              *string         `json:"remarks,omitempty"`
}

func ToResponse(e *Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:                   e.ID,
		EmployeeID:           e.EmployeeID,
		Date:                 dateutil.Key(e.Date),
		InitialReading:       e.InitialReading,
		FinalReading:         e.FinalReading,
		Rate:                 e.Rate,
		Distance:             e.Distance,
		FuelTotal:            e.FuelTotal,
		MiscellaneousExpense: e.MiscellaneousExpense,
		Amount:               e.Amount,
		TotalAmount:          e.Total(),
		Remarks:              e.Remarks,
	}
}
