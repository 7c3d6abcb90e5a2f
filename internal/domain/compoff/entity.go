package compoff

import "time"

type Action string

const (
	ActionEarned Action = "earned"
)

// Full and half comp-off credits.
const (
	FullDay = 1.0
	HalfDay = 0.5
)

// History is an append-only audit row of a comp-off balance change. The
// authoritative balance lives on the employee.
type History struct {
	ID             string
	EmployeeID     string
	Amount         float64
	Action         Action
	AttendanceDate *time.Time
	Remark         string
	CreatedAt      time.Time
}

// Credit returns the comp-off earned for working workedHours on a
// non-working day whose expected shift is shiftHours long.
func Credit(workedHours, shiftHours float64) float64 {
	if workedHours < shiftHours*0.5 {
		return HalfDay
	}
	return FullDay
}
