package notification

import "errors"

var (
	ErrQueueFull     = errors.New("notification queue is full")
	ErrServiceClosed = errors.New("notification service is stopped")
)
