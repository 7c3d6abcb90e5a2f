package salary

import "errors"

var (
	ErrSalaryNotFound = errors.New("salary not found")
	ErrSalaryExists   = errors.New("salary already exists for this employee and period")
)
