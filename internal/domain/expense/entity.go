package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an odometer-based fuel claim plus miscellaneous spend for one day.
type Expense struct {
	ID                   string
	EmployeeID           string
	Date                 time.Time
	InitialReading       float64
	FinalReading         float64
	Rate                 decimal.Decimal // per distance unit
	Distance             float64
	FuelTotal            decimal.Decimal
	MiscellaneousExpense decimal.Decimal
	Amount               decimal.Decimal // reimbursable fuel amount
	Remarks              *string
	CreatedAt            time.Time
}

// Compute fills Distance, FuelTotal and Amount from the readings and rate.
func (e *Expense) Compute() {
	e.Distance = e.FinalReading - e.InitialReading
	e.FuelTotal = e.Rate.Mul(decimal.NewFromFloat(e.Distance)).Round(2)
	e.Amount = e.FuelTotal
}

// Total is what the expense contributes to the salary period.
func (e *Expense) Total() decimal.Decimal {
	return e.Amount.Add(e.MiscellaneousExpense)
}
