package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/chatapproval/internal/idgen"
	"github.com/viant/chatapproval/service/messaging"
)

// ErrFull is returned by TryPublish when the buffer has no room
var ErrFull = errors.New("queue: full")

// Config for memory queue implementation
type Config struct {
	// MaxRetries is the number of redeliveries after a Nack; zero disables retries
	MaxRetries int
	RetryDelay time.Duration
	// DeadLetter keeps messages that exhausted retries for inspection
	DeadLetter bool
	// MaxDeadLetters caps the dead letter list; the oldest letter is dropped
	// first. Non-positive means DefaultMaxDeadLetters.
	MaxDeadLetters int
	QueueBuffer    int
}

// DefaultMaxDeadLetters is the dead letter cap used when none is configured
const DefaultMaxDeadLetters = 100

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:     true,
		MaxDeadLetters: DefaultMaxDeadLetters,
		QueueBuffer:    100,
	}
}

// DeadLetter is a message that could not be processed
type DeadLetter[T any] struct {
	ID       string
	Payload  T
	Attempts int
	Err      error
}

// Message implements messaging.Message for the in-memory queue
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	attempts  int
	mu        sync.Mutex
	processed bool
}

func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack records a processing failure; the message is redelivered while
// retries remain, otherwise dead-lettered.
func (m *Message[T]) Nack(err error) error {
	if sErr := m.settle(); sErr != nil {
		return sErr
	}
	attempts := m.attempts + 1
	if attempts <= m.queue.config.MaxRetries {
		retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, attempts: attempts}
		time.AfterFunc(m.queue.config.RetryDelay, func() { m.queue.redeliver(retry) })
		return nil
	}
	if m.queue.config.DeadLetter {
		m.queue.deadLetter(&DeadLetter[T]{ID: m.id, Payload: m.payload, Attempts: attempts, Err: err})
	}
	return nil
}

func (m *Message[T]) settle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlqMu    sync.Mutex
	dlq      []*DeadLetter[T]
	dropped  int
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.MaxDeadLetters <= 0 {
		config.MaxDeadLetters = DefaultMaxDeadLetters
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

func (q *Queue[T]) newMessage(t *T) *Message[T] {
	return &Message[T]{id: idgen.New(), payload: *t, queue: q}
}

// Publish adds a new item to the queue, waiting for room until ctx is done
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.messages <- q.newMessage(t):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish adds a new item without waiting
func (q *Queue[T]) TryPublish(t *T) error {
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	select {
	case q.messages <- q.newMessage(t):
		return nil
	default:
		return ErrFull
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue[T]) redeliver(msg *Message[T]) {
	select {
	case q.messages <- msg:
	default:
		if q.config.DeadLetter {
			q.deadLetter(&DeadLetter[T]{ID: msg.id, Payload: msg.payload, Attempts: msg.attempts, Err: ErrFull})
		}
	}
}

func (q *Queue[T]) deadLetter(letter *DeadLetter[T]) {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	if overflow := len(q.dlq) + 1 - q.config.MaxDeadLetters; overflow > 0 {
		q.dlq = append(q.dlq[:0], q.dlq[overflow:]...)
		q.dropped += overflow
	}
	q.dlq = append(q.dlq, letter)
}

// DeadLettersDropped returns the number of dead letters evicted by the cap
func (q *Queue[T]) DeadLettersDropped() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return q.dropped
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

// DeadLetters returns a copy of the dead letter queue
func (q *Queue[T]) DeadLetters() []*DeadLetter[T] {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return append([]*DeadLetter[T](nil), q.dlq...)
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
