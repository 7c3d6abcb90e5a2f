package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retailhr/hr-backend-go/internal/domain/notification"
	"github.com/retailhr/hr-backend-go/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount    int           // default: 2
	QueueSize      int           // default: 1000
	PublishTimeout time.Duration // default: 5 seconds
}

type service struct {
	hub       *sse.Hub
	publisher notification.Publisher // optional
	config    Config

	queue  chan notification.Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewNotificationService starts the delivery workers. publisher may be nil,
// in which case events only reach open streams.
func NewNotificationService(hub *sse.Hub, publisher notification.Publisher, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 5 * time.Second
	}

	s := &service{
		hub:       hub,
		publisher: publisher,
		config:    cfg,
		queue:     make(chan notification.Event, cfg.QueueSize),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize, "broker", publisher != nil)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()
	for event := range s.queue {
		s.deliver(event)
		if s.publisher != nil {
			s.publish(id, event)
		}
	}
}

func (s *service) deliver(event notification.Event) int {
	msg := sse.Event{Event: string(event.Type), Data: notification.ToPayload(event)}
	sent := s.hub.PublishToEmployees(event.RecipientIDs, msg)
	if event.StoreID != nil {
		sent += s.hub.PublishToStore(*event.StoreID, msg)
	}
	return sent
}

func (s *service) publish(worker int, event notification.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, "notification."+string(event.Type), notification.ToPayload(event)); err != nil {
		slog.Error("failed to publish notification", "worker", worker, "event_id", event.ID, "type", event.Type, "error", err)
	}
}

// Notify implements notification.Sink. It never blocks: when the queue is
// full the event is pushed to open streams inline and the broker is skipped.
func (s *service) Notify(ctx context.Context, event notification.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		slog.Warn("notification dropped", "event_id", event.ID, "type", event.Type, "error", notification.ErrServiceClosed)
		return
	}

	select {
	case s.queue <- event:
	default:
		sent := s.deliver(event)
		slog.Warn("notification queue full, delivered inline", "event_id", event.ID, "type", event.Type, "streams", sent, "error", notification.ErrQueueFull)
	}
}

// Subscribe implements notification.Service.
func (s *service) Subscribe(ctx context.Context, employeeID string, storeID *string) (<-chan notification.SSEEvent, func()) {
	var store string
	if storeID != nil {
		store = *storeID
	}
	ch, cleanup := s.hub.Subscribe(employeeID, store)

	out := make(chan notification.SSEEvent, 10)
	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: event.Data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop drains the queue and waits for the workers.
func (s *service) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	s.wg.Wait()
	slog.Info("notification service stopped")
}
