package model

import (
	"time"
)

// Status represents the aggregated state of an order
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusMixed is a terminal status for orders where every recipient
	// responded but the responses are not unanimous.
	StatusMixed Status = "mixed"
)

// IsTerminal returns true when the order no longer accepts replies
func (s Status) IsTerminal() bool {
	return s != StatusPending && s != ""
}

// State represents a single recipient response state
type State string

const (
	StateUnanswered State = "unanswered"
	StateApproved   State = "approved"
	StateRejected   State = "rejected"
)

// IsSet returns true once the recipient responded
func (s State) IsSet() bool {
	return s == StateApproved || s == StateRejected
}

// Response tracks a single recipient answer
type Response struct {
	State        State      `json:"state" yaml:"state"`
	RejectReason *string    `json:"rejectReason,omitempty" yaml:"rejectReason,omitempty"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty" yaml:"respondedAt,omitempty"`
}

// Order represents a unit of work requiring approval from a fixed set of recipients
type Order struct {
	ID          string               `json:"id" yaml:"id"`
	Recipients  map[string]*Response `json:"recipients" yaml:"recipients"`
	CallbackURL string               `json:"callbackUrl,omitempty" yaml:"callbackUrl,omitempty"`
	Status      Status               `json:"status" yaml:"status"`
	Message     string               `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt   time.Time            `json:"createdAt" yaml:"createdAt"`
	SettledAt   *time.Time           `json:"settledAt,omitempty" yaml:"settledAt,omitempty"`
}

// NewOrder creates a pending order with every recipient unanswered
func NewOrder(id string, recipients []string, callbackURL string, createdAt time.Time) *Order {
	ret := &Order{
		ID:          id,
		Recipients:  make(map[string]*Response, len(recipients)),
		CallbackURL: callbackURL,
		Status:      StatusPending,
		CreatedAt:   createdAt,
	}
	for _, key := range recipients {
		ret.Recipients[key] = &Response{State: StateUnanswered}
	}
	return ret
}

// Response returns the response tracked for the recipient key or nil
func (o *Order) Response(key string) *Response {
	if o == nil || o.Recipients == nil {
		return nil
	}
	return o.Recipients[key]
}

// Awaits returns true if the recipient has not responded yet
func (o *Order) Awaits(key string) bool {
	r := o.Response(key)
	return r != nil && !r.State.IsSet()
}

// Evaluate derives the order status from recipient responses. Mixed final
// responses yield StatusMixed when settleMixed is set, otherwise the order
// stays pending.
func (o *Order) Evaluate(settleMixed bool) Status {
	if len(o.Recipients) == 0 {
		return StatusPending
	}
	approved, rejected := 0, 0
	for _, r := range o.Recipients {
		switch r.State {
		case StateApproved:
			approved++
		case StateRejected:
			rejected++
		default:
			return StatusPending
		}
	}
	switch {
	case approved == len(o.Recipients):
		return StatusApproved
	case rejected == len(o.Recipients):
		return StatusRejected
	case settleMixed:
		return StatusMixed
	}
	return StatusPending
}

// Clone returns a deep copy of the order
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	ret := *o
	ret.Recipients = make(map[string]*Response, len(o.Recipients))
	for k, v := range o.Recipients {
		if v == nil {
			ret.Recipients[k] = nil
			continue
		}
		r := *v
		if v.RejectReason != nil {
			reason := *v.RejectReason
			r.RejectReason = &reason
		}
		if v.RespondedAt != nil {
			at := *v.RespondedAt
			r.RespondedAt = &at
		}
		ret.Recipients[k] = &r
	}
	if o.SettledAt != nil {
		at := *o.SettledAt
		ret.SettledAt = &at
	}
	return &ret
}
