package approval

import (
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao"
)

// ErrPersistence is returned when a mutation could not be flushed; the
// in-memory order is rolled back.
var ErrPersistence = dao.ErrPersistence

// Kind classifies the result of applying a reply
type Kind string

const (
	// Recorded means the response was stored
	Recorded Kind = "recorded"
	// OrderNotFound means no active order matched the id
	OrderNotFound Kind = "orderNotFound"
	// NotARecipient means the sender is not part of the order
	NotARecipient Kind = "notARecipient"
	// AlreadyResponded means the sender answered before
	AlreadyResponded Kind = "alreadyResponded"
)

// Outcome describes the effect of a reply
type Outcome struct {
	Kind      Kind         `json:"kind"`
	OrderID   string       `json:"orderId"`
	Recipient string       `json:"recipient,omitempty"`
	Settled   bool         `json:"settled"`
	Status    model.Status `json:"status,omitempty"`
	// Ack is the text to send back to the sender; empty means no reply
	Ack string `json:"ack,omitempty"`
}
