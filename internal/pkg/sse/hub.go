package sse

import (
	"sync"
)

// Event represents an SSE event to be sent to subscribers
type Event struct {
	Event string
	Data  interface{}
}

// Hub is the registry of open notification streams. Streams are keyed by
// employee and, optionally, by store for store-wide fan-out.
type Hub struct {
	mu        sync.RWMutex
	employees map[string]map[chan Event]struct{}
	stores    map[string]map[chan Event]struct{}
	buffer    int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		employees: make(map[string]map[chan Event]struct{}),
		stores:    make(map[string]map[chan Event]struct{}),
		buffer:    10,
	}
}

// Subscribe registers a stream for employeeID, and for storeID when it is
// not empty. The returned cleanup unregisters and closes the channel.
func (h *Hub) Subscribe(employeeID string, storeID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	add(h.employees, employeeID, ch)
	if storeID != "" {
		add(h.stores, storeID, ch)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			remove(h.employees, employeeID, ch)
			if storeID != "" {
				remove(h.stores, storeID, ch)
			}
			close(ch)
		})
	}

	return ch, cleanup
}

func add(m map[string]map[chan Event]struct{}, key string, ch chan Event) {
	if m[key] == nil {
		m[key] = make(map[chan Event]struct{})
	}
	m[key][ch] = struct{}{}
}

func remove(m map[string]map[chan Event]struct{}, key string, ch chan Event) {
	delete(m[key], ch)
	if len(m[key]) == 0 {
		delete(m, key)
	}
}

// PublishToEmployees sends event to every stream of the given employees.
// Full channels are skipped. It returns the number of deliveries.
func (h *Hub) PublishToEmployees(employeeIDs []string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	seen := make(map[chan Event]struct{})
	for _, id := range employeeIDs {
		sent += send(h.employees[id], seen, event)
	}
	return sent
}

// PublishToStore sends event to every stream registered for storeID.
func (h *Hub) PublishToStore(storeID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return send(h.stores[storeID], make(map[chan Event]struct{}), event)
}

func send(subs map[chan Event]struct{}, seen map[chan Event]struct{}, event Event) int {
	sent := 0
	for ch := range subs {
		if _, dup := seen[ch]; dup {
			continue
		}
		seen[ch] = struct{}{}
		select {
		case ch <- event:
			sent++
		default:
			// Skip if channel is full (non-blocking to prevent deadlock)
		}
	}
	return sent
}

// SubscriberCount returns the number of active streams of an employee
func (h *Hub) SubscriberCount(employeeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.employees[employeeID])
}

// TotalSubscribers returns the total number of active streams
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.employees {
		total += len(subs)
	}
	return total
}
