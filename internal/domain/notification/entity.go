package notification

import (
	"time"
)

// EventType represents the type of notification
type EventType string

const (
	TypeLeaveSubmitted  EventType = "leave_submitted"
	TypeLeaveDecided    EventType = "leave_decided"
	TypeOvertimeDecided EventType = "overtime_decided"
	TypeCompOffEarned   EventType = "comp_off_earned"
)

// Event is one notification fanned out to employees and, optionally, a whole store.
type Event struct {
	ID           string
	Type         EventType
	RecipientIDs []string
	StoreID      *string
	Title        string
	Message      string
	Data         map[string]interface{}
	CreatedAt    time.Time
}
