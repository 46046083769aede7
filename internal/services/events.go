package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Event types emitted after successful writes.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusUpdated = "order.status_updated"
	EventProductCreated     = "product.created"
	EventProductDeleted     = "product.deleted"
)

// EventBus is the subset of the message bus used for publishing.
type EventBus interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Event is the JSON envelope written to the bus.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// EventPublisher writes events to a single channel. A nil publisher, or one
// without a bus, drops every event.
type EventPublisher struct {
	bus     EventBus
	channel string
	now     func() time.Time
}

func NewEventPublisher(bus EventBus, channel string) *EventPublisher {
	return &EventPublisher{bus: bus, channel: channel, now: time.Now}
}

// Publish is best effort: failures are logged and never reach the caller,
// since the write that triggered the event has already committed.
func (p *EventPublisher) Publish(ctx context.Context, eventType string, data any) {
	if p == nil || p.bus == nil {
		return
	}
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(Event{Type: eventType, OccurredAt: p.now().UTC(), Data: data})
	if err != nil {
		logger.Error().Err(err).Str("event", eventType).Msg("encode event")
		return
	}

	id, err := p.bus.Publish(ctx, p.channel, payload, map[string]string{"type": eventType})
	if err != nil {
		logger.Warn().Err(err).Str("event", eventType).Msg("publish event")
		return
	}
	logger.Debug().Str("event", eventType).Str("message_id", id).Msg("event published")
}
