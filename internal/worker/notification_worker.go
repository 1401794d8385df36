package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/it-inventory/internal/events"
	"github.com/spec-kit/it-inventory/internal/service"
)

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// EventWorker is a Dispatcher that hands published events to a background
// goroutine, so slow notification handlers never hold up a request.
type EventWorker struct {
	inner  events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// NewEventWorker wraps inner with a queue of the given size.
func NewEventWorker(inner events.Dispatcher, size int, logger *zap.Logger) *EventWorker {
	if size <= 0 {
		size = 64
	}
	return &EventWorker{inner: inner, queue: make(chan queuedEvent, size), logger: logger}
}

// Publish enqueues the event. When the queue is full or the worker has
// stopped the event is dropped and logged.
func (w *EventWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		w.logger.Warn("event worker stopped; dropping event",
			zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
		return nil
	}
	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
	default:
		w.logger.Warn("event queue full; dropping event",
			zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Subscribe registers handlers on the wrapped dispatcher.
func (w *EventWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Start registers the notification handlers and begins draining the queue.
func (w *EventWorker) Start(notifications *service.NotificationService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for item := range w.queue {
			if err := w.inner.Publish(item.ctx, item.event); err != nil {
				w.logger.Warn("event handler failed",
					zap.String("event_type", string(item.event.Type)), zap.Error(err))
			}
		}
	}()
}

// Stop closes the queue and waits for queued events to be handled.
func (w *EventWorker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
