package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/retailhr/hr-backend-go/internal/domain/attendance"
	"github.com/retailhr/hr-backend-go/internal/domain/leave"
	"github.com/retailhr/hr-backend-go/internal/domain/salary"
	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthorized", user.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden wrapped", fmt.Errorf("%w: %w", user.ErrForbidden, leave.ErrSelfApproval), http.StatusForbidden, "FORBIDDEN"},
		{"not found", salary.ErrSalaryNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already punched in", attendance.ErrAlreadyPunchedIn, http.StatusConflict, "CONFLICT"},
		{"overlap", leave.ErrLeaveOverlap, http.StatusConflict, "CONFLICT"},
		{"insufficient balance", leave.ErrInsufficientLeaveBalance, http.StatusBadRequest, "BAD_REQUEST"},
		{"no working days", fmt.Errorf("submit: %w", leave.ErrNoWorkingDays), http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("end_date", "must not be before start_date")

	rec := httptest.NewRecorder()
	HandleError(rec, errs)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "must not be before start_date", body.Error.Details["end_date"])
}

func TestHandleError_InternalHidesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password")
}
