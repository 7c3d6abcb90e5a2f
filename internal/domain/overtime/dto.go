package overtime

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
	"github.com/retailhr/hr-backend-go/internal/pkg/validator"
)

type CreateOvertimeRequest struct {
	EmployeeID string  `json:"employee_id,omitempty"`
	Date       string  `json:"date" validate:"required,date"`
	Hours      float64 `json:"hours" validate:"gt=0,lte=24"`
	Remarks    string  `json:"remarks,omitempty" validate:"max=500"`
}

func (r *CreateOvertimeRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type DecisionRequest struct {
	Decision      string   `json:"decision" validate:"required,oneof=approved rejected"`
	ApprovedHours *float64 `json:"approved_hours,omitempty" validate:"omitempty,gt=0,lte=24"`
	Remark        string   `json:"remark,omitempty" validate:"max=500"`
}

func (r *DecisionRequest) Validate() error {
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type ListOvertimeQuery struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=pending approved rejected"`
	Month      int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year       int    `json:"year,omitempty" validate:"omitempty,min=2000"`
}

func (q *ListOvertimeQuery) Validate() error {
	errs := validator.Struct(q)
	if (q.Month == 0) != (q.Year == 0) {
		errs.Add("month", "month and year must be given together")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OvertimeResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	Date           string     `json:"date"`
	RequestedHours float64    `json:"requested_hours"`
	Remarks        string     `json:"remarks,omitempty"`
	Status         Status     `json:"status"`
	ApproverID     *string    `json:"approver_id,omitempty"`
	ApprovedHours  *float64   `json:"approved_hours,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	DecisionRemark *string    `json:"decision_remark,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToResponse(r *Request) OvertimeResponse {
	return OvertimeResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Date:           dateutil.Key(r.Date),
		RequestedHours: r.RequestedHours,
		Remarks:        r.Remarks,
		Status:         r.Status,
		ApproverID:     r.ApproverID,
		ApprovedHours:  r.ApprovedHours,
		ApprovedAt:     r.ApprovedAt,
		DecisionRemark: r.DecisionRemark,
		CreatedAt:      r.CreatedAt,
	}
}
