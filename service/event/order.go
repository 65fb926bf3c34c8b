package event

import (
	"context"

	"github.com/viant/chatapproval/model"
)

// OrderEvent carries an order snapshot
type OrderEvent = Event[*model.Order]

// Sink accepts order events
type Sink interface {
	Publish(ctx context.Context, event *OrderEvent) error
}

// NewOrderEvent creates an event of eventType for a snapshot of anOrder
func NewOrderEvent(eventType string, anOrder *model.Order, recipient string) *OrderEvent {
	return NewEvent[*model.Order](&Context{OrderID: anOrder.ID, Recipient: recipient, EventType: eventType}, anOrder.Clone())
}
