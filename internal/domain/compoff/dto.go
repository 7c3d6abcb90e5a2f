package compoff

import (
	"time"

	"github.com/retailhr/hr-backend-go/internal/pkg/dateutil"
)

type HistoryResponse struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	Amount         float64   `json:"amount"`
	Action         Action    `json:"action"`
	AttendanceDate *string   `json:"attendance_date,omitempty"`
	Remark         string    `json:"remark,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func ToResponse(h *History) HistoryResponse {
	resp := HistoryResponse{
		ID:         h.ID,
		EmployeeID: h.EmployeeID,
		Amount:     h.Amount,
		Action:     h.Action,
		Remark:     h.Remark,
		CreatedAt:  h.CreatedAt,
	}
	if h.AttendanceDate != nil {
		d := dateutil.Key(*h.AttendanceDate)
		resp.AttendanceDate = &d
	}
	return resp
}
