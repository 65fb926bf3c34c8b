// Package memory provides an in-process loopback transport.
package memory

import (
	"context"
	"sync"

	"github.com/viant/chatapproval/service/transport"
)

// Outbound is a message captured by the loopback transport
type Outbound struct {
	To    string
	Text  string
	Image *transport.Image
}

// Transport records outbound messages and delivers injected inbound ones
type Transport struct {
	mux     sync.Mutex
	ready   bool
	sent    []*Outbound
	fail    func(out *Outbound) error
	handler transport.Handler
}

var _ transport.Transport = (*Transport)(nil)

func (t *Transport) Send(ctx context.Context, to, text string) error {
	return t.record(ctx, &Outbound{To: to, Text: text})
}

func (t *Transport) SendImage(ctx context.Context, to string, image *transport.Image) error {
	return t.record(ctx, &Outbound{To: to, Image: image})
}

func (t *Transport) record(ctx context.Context, out *Outbound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mux.Lock()
	defer t.mux.Unlock()
	if !t.ready {
		return transport.ErrNotReady
	}
	if t.fail != nil {
		if err := t.fail(out); err != nil {
			return err
		}
	}
	t.sent = append(t.sent, out)
	return nil
}

func (t *Transport) Ready(_ context.Context) bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.ready
}

func (t *Transport) Logout(_ context.Context) error {
	t.SetReady(false)
	return nil
}

// SetReady changes the connection state
func (t *Transport) SetReady(ready bool) {
	t.mux.Lock()
	t.ready = ready
	t.mux.Unlock()
}

// FailWhen makes sends fail whenever fn returns an error; nil clears it
func (t *Transport) FailWhen(fn func(out *Outbound) error) {
	t.mux.Lock()
	t.fail = fn
	t.mux.Unlock()
}

// OnMessage registers the inbound handler
func (t *Transport) OnMessage(handler transport.Handler) {
	t.mux.Lock()
	t.handler = handler
	t.mux.Unlock()
}

// Deliver passes an inbound message to the registered handler
func (t *Transport) Deliver(ctx context.Context, message *transport.Message) {
	t.mux.Lock()
	handler := t.handler
	t.mux.Unlock()
	if handler != nil {
		handler(ctx, message)
	}
}

// Sent returns captured outbound messages
func (t *Transport) Sent() []*Outbound {
	t.mux.Lock()
	defer t.mux.Unlock()
	return append([]*Outbound(nil), t.sent...)
}

// SentTo returns captured outbound messages addressed to key
func (t *Transport) SentTo(key string) []*Outbound {
	var ret []*Outbound
	for _, out := range t.Sent() {
		if out.To == key {
			ret = append(ret, out)
		}
	}
	return ret
}

// Reset clears captured messages
func (t *Transport) Reset() {
	t.mux.Lock()
	t.sent = nil
	t.mux.Unlock()
}

// New creates a connected loopback transport
func New() *Transport {
	return &Transport{ready: true}
}
