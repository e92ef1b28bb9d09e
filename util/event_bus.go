// api/util/event_bus.go

package util

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	logger "github.com/zt-labs/aegis/api/logging"
)

// Event is one message on the bus. Payload is typically a model.SecurityEvent
// or a registered directory record.
type Event struct {
	Type    string
	Payload interface{}
}

// EventHandler handles one published event.
type EventHandler func(context.Context, Event) error

const eventErrorBuffer = 100

// EventBus fans published events out to topic subscribers. Handlers run in
// their own goroutines so a slow SIEM forwarder or notifier never blocks an
// evaluation.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	errorChan   chan error
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]EventHandler),
		errorChan:   make(chan error, eventErrorBuffer),
	}
}

// Subscribe adds a handler for a topic.
func (eb *EventBus) Subscribe(eventType string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], handler)
}

// Publish delivers the payload to every subscriber of the topic
// asynchronously. Handler errors are collected on the error channel.
func (eb *EventBus) Publish(ctx context.Context, eventType string, payload interface{}) {
	eb.mu.RLock()
	handlers := eb.subscribers[eventType]
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{Type: eventType, Payload: payload}
	for _, handler := range handlers {
		go func(h EventHandler) {
			err := h(ctx, event)
			if err == nil {
				return
			}
			select {
			case eb.errorChan <- fmt.Errorf("event handler error: %w", err):
			default:
				logger.Error("Event error channel full, dropping to log",
					zap.Error(err),
					zap.String("eventType", eventType))
			}
		}(handler)
	}
}

// Start begins draining handler errors until the context is cancelled.
func (eb *EventBus) Start(ctx context.Context) {
	go eb.processErrors(ctx)
}

func (eb *EventBus) processErrors(ctx context.Context) {
	for {
		select {
		case err := <-eb.errorChan:
			logger.Error("Event handler error", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
