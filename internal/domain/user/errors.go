package user

import "errors"

var (
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("insufficient permissions")
	ErrStoreNotResolved  = errors.New("no store associated with the current user")
	ErrEmployeeNotLinked = errors.New("account is not linked to an employee")
)
