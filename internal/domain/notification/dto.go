package notification

import "time"

// SSEEvent is what a stream subscriber receives.
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Payload is the JSON body of an event on the stream and on the broker.
type Payload struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	StoreID   *string                `json:"store_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func ToPayload(e Event) Payload {
	return Payload{
		ID:        e.ID,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		StoreID:   e.StoreID,
		Data:      e.Data,
		CreatedAt: e.CreatedAt,
	}
}
