package memory

import (
	"context"
	"sync"

	"github.com/retailhr/hr-backend-go/internal/domain/notification"
)

// Notifier records events instead of delivering them.
type Notifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *Notifier) Notify(ctx context.Context, event notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *Notifier) Events() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Event(nil), n.events...)
}

// Types returns the recorded event types in order.
func (n *Notifier) Types() []notification.EventType {
	var out []notification.EventType
	for _, e := range n.Events() {
		out = append(out, e.Type)
	}
	return out
}
