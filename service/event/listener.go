package event

import (
	"context"
	"errors"
	"sync"
)

// Listener passes consumed events to handler until stopped
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	onError   func(error)
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), onError func(error)) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		onError:   onError,
	}
}

// Stop cancels consumption and waits for the running handler to return
func (l *Listener[T]) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
	l.wg.Wait()
}

func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			event, err := l.publisher.Consume(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				if l.onError != nil && !errors.Is(err, context.Canceled) {
					l.onError(err)
				}
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
