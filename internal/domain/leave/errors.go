package leave

import "errors"

var (
	ErrLeaveNotFound            = errors.New("leave not found")
	ErrLeaveOverlap             = errors.New("leave overlaps an existing leave")
	ErrNoWorkingDays            = errors.New("leave range contains no working days")
	ErrInsufficientLeaveBalance = errors.New("insufficient leave balance")
	ErrLeaveAlreadyProcessed    = errors.New("leave already processed")
	ErrLeaveNotPending          = errors.New("only pending leaves can be withdrawn")
	ErrSelfApproval             = errors.New("cannot decide your own leave")
	ErrStageApproverRequired    = errors.New("caller cannot decide leaves at this approval stage")
)
