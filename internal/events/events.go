// Package events defines the domain events emitted after successful writes
// and the publishers that ship them to a broker.
package events

import (
	"context"
	"time"

	"orbio/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	OrderCreated         = "order.created"
	OrderStatusChanged   = "order.status_changed"
	InquiryCreated       = "inquiry.created"
	InquiryStatusChanged = "inquiry.status_changed"
	StockChanged         = "inventory.stock_changed"
)

// Event is the envelope published for every domain change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(eventType, resource, resourceID string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher ships events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Emit publishes ev and logs a failure instead of returning it. Events are
// sent after the write has committed, so a broker outage never fails the write.
func Emit(ctx context.Context, p Publisher, log *zap.Logger, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		util.EventsPublishedTotal.WithLabelValues(ev.Type, "error").Inc()
		util.OrNop(log).Warn("failed to publish event",
			zap.String("type", ev.Type),
			zap.String("resource_id", ev.ResourceID),
			zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(ev.Type, "ok").Inc()
}
