package overtime

import "errors"

var (
	ErrOvertimeNotFound         = errors.New("overtime request not found")
	ErrOvertimeExists           = errors.New("an overtime request already exists for this date")
	ErrOvertimeAlreadyProcessed = errors.New("overtime request already processed")
	ErrSelfApproval             = errors.New("cannot decide your own overtime request")
)
