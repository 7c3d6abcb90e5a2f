package notification

import (
	"context"
)

// Sink accepts events without blocking the caller. Delivery failures are
// logged by the implementation and never returned.
type Sink interface {
	Notify(ctx context.Context, event Event)
}

// Service defines the notification service interface
type Service interface {
	Sink

	// Subscribe registers a stream for an employee and, when storeID is set,
	// for store-wide events.
	Subscribe(ctx context.Context, employeeID string, storeID *string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}

// Publisher forwards events to an external broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}
