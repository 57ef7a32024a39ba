package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product event types, also used as the subject suffix.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

type ProductEvent struct {
	EventType  string    `json:"eventType"`
	ProductID  uuid.UUID `json:"productId"`
	Name       string    `json:"name,omitempty"`
	Variants   int       `json:"variants"`
	OccurredAt time.Time `json:"occurredAt"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event ProductEvent) error
}

// NewProductEvent summarises a view for publishing. view may be nil for deletes.
func NewProductEvent(eventType string, id uuid.UUID, view *ProductView) ProductEvent {
	event := ProductEvent{
		EventType:  eventType,
		ProductID:  id,
		OccurredAt: time.Now().UTC(),
	}
	if view != nil {
		event.Name = view.Product.Name
		event.Variants = len(view.Variants)
	}
	return event
}
