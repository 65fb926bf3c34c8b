package event

import (
	"time"

	"github.com/viant/chatapproval/internal/clock"
)

// Order lifecycle event types
const (
	TypeOrderCreated     = "order.created"
	TypeResponseRecorded = "response.recorded"
	TypeOrderSettled     = "order.settled"
)

type Context struct {
	OrderID   string `json:"orderId"`
	Recipient string `json:"recipient,omitempty"`
	EventType string `json:"eventType"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
