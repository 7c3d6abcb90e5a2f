package expense

import "errors"

var (
	ErrExpenseExists = errors.New("an expense is already recorded for this date")
)
