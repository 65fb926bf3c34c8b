package callback

import (
	"time"

	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/identity"
)

// Webhook status values
const (
	StatusYes = "yes"
	StatusNo  = "no"
)

// Payload is the webhook request body
type Payload struct {
	OrderID      string  `json:"orderId"`
	User         string  `json:"user"`
	Status       string  `json:"status"`
	RejectReason *string `json:"reject_reason"`
}

// Notification is a queued webhook delivery
type Notification struct {
	URL        string
	Payload    Payload
	EnqueuedAt time.Time
}

// NewPayload builds the payload for the response of recipient key on order
func NewPayload(orderID, key string, response *model.Response) *Payload {
	ret := &Payload{OrderID: orderID, User: identity.User(key), Status: StatusNo}
	if response == nil {
		return ret
	}
	if response.State == model.StateApproved {
		ret.Status = StatusYes
	}
	if response.State == model.StateRejected && response.RejectReason != nil {
		reason := *response.RejectReason
		ret.RejectReason = &reason
	}
	return ret
}
