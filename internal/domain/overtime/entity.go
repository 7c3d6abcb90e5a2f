package overtime

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is an overtime claim for one employee on one date.
type Request struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	RequestedHours float64
	Remarks        string
	Status         Status
	ApproverID     *string
	ApprovedHours  *float64
	ApprovedAt     *time.Time
	DecisionRemark *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
