package event

import (
	"context"
	"time"

	"github.com/viant/chatapproval/internal/clock"
	"github.com/viant/chatapproval/service/messaging"
)

type Publisher[T any] struct {
	queue   messaging.Queue[Event[T]]
	timeout time.Duration
}

// NewPublisher creates a publisher; a positive timeout bounds how long
// Publish waits for queue room.
func NewPublisher[T any](queue messaging.Queue[Event[T]], timeout time.Duration) *Publisher[T] {
	return &Publisher[T]{
		queue:   queue,
		timeout: timeout,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
	}
	return p.queue.Publish(ctx, event)
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
