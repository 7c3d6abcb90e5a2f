package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/employee"
	"github.com/retailhr/hr-backend-go/internal/domain/expense"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/domain/overtime"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/store"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity and permissions
	case errors.Is(err, user.ErrUnauthorized), errors.Is(err, user.ErrEmployeeNotLinked):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrForbidden):
		Forbidden(w, err.Error())

	// Not found
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, attendance.ErrAttendanceNotFound),
		errors.Is(err, leave.ErrLeaveNotFound),
		errors.Is(err, overtime.ErrOvertimeNotFound),
		errors.Is(err, salary.ErrSalaryNotFound),
		errors.Is(err, store.ErrStoreNotFound),
		errors.Is(err, store.ErrCalendarNotFound),
		errors.Is(err, store.ErrHolidayNotFound):
		NotFound(w, err.Error())

	// Conflicts
	case errors.Is(err, attendance.ErrAlreadyPunchedIn),
		errors.Is(err, attendance.ErrAlreadyPunchedOut),
		errors.Is(err, attendance.ErrAttendanceExists),
		errors.Is(err, leave.ErrLeaveOverlap),
		errors.Is(err, leave.ErrLeaveAlreadyProcessed),
		errors.Is(err, overtime.ErrOvertimeExists),
		errors.Is(err, overtime.ErrOvertimeAlreadyProcessed),
		errors.Is(err, salary.ErrSalaryExists),
		errors.Is(err, expense.ErrExpenseExists):
		Conflict(w, err.Error())

	// Business-rule rejections
	case errors.Is(err, attendance.ErrNotPunchedIn),
		errors.Is(err, attendance.ErrDateRangeTooLong),
		errors.Is(err, leave.ErrNoWorkingDays),
		errors.Is(err, leave.ErrInsufficientLeaveBalance),
		errors.Is(err, employee.ErrInsufficientLeaveBalance),
		errors.Is(err, leave.ErrLeaveNotPending):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
