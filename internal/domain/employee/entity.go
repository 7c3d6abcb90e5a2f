package employee

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/domain/user"
	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Default shift lengths used when an employee has no expected in/out time.
const (
	DefaultDailyHours = 8.0
	DefaultShiftHours = 9.0
)

type Employee struct {
	ID                 string
	UserID             *string
	Name               string
	Email              string
	StoreID            *string
	Profile            user.Profile
	ReportingManagerID *string
	ExpectedInTime     *time.Time // wall clock; date part ignored
	ExpectedOutTime    *time.Time
	LeaveDays          float64
	CompOffBalance     float64
	BasicSalary        *decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ShiftHours returns expected-out minus expected-in in hours, or def when
// either is unset.
func (e *Employee) ShiftHours(def float64) float64 {
	return dateutil.ShiftHours(e.ExpectedInTime, e.ExpectedOutTime, def)
}

// InStore reports whether the employee is affiliated with storeID.
func (e *Employee) InStore(storeID string) bool {
	return e.StoreID != nil && *e.StoreID == storeID
}

// Identity builds the caller identity of this employee for the given account role.
func (e *Employee) Identity(userID string, role user.Role) *user.Identity {
	return &user.Identity{
		UserID:             userID,
		EmployeeID:         e.ID,
		Role:               role,
		Profile:            e.Profile,
		StoreID:            e.StoreID,
		ReportingManagerID: e.ReportingManagerID,
	}
}
