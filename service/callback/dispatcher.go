package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/viant/chatapproval/internal/clock"
	"github.com/viant/chatapproval/internal/metrics"
	"github.com/viant/chatapproval/service/messaging"
	"github.com/viant/chatapproval/service/messaging/memory"
	"github.com/viant/chatapproval/tracing"
)

// Callback results used for metrics
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

// ErrStopped is returned by Notify after Shutdown
var ErrStopped = errors.New("callback: dispatcher stopped")

// Dispatcher posts queued notifications to webhooks
type Dispatcher struct {
	config Config
	client *http.Client
	queue  messaging.Queue[Notification]
	logger *slog.Logger

	mux      sync.RWMutex
	started  bool
	stopped  bool
	cancelFn context.CancelFunc
	workerWg sync.WaitGroup
}

// Notify enqueues a webhook delivery. An empty url is a no-op. When the
// queue has no room within the configured bound the notification is dropped.
func (d *Dispatcher) Notify(ctx context.Context, url string, payload *Payload) error {
	if url == "" || payload == nil {
		return nil
	}
	d.mux.RLock()
	stopped := d.stopped
	d.mux.RUnlock()
	if stopped {
		d.drop(payload, ErrStopped)
		return ErrStopped
	}
	notification := &Notification{URL: url, Payload: *payload, EnqueuedAt: clock.Now()}
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.config.EnqueueTimeout)
	defer cancel()
	if err := d.queue.Publish(enqueueCtx, notification); err != nil {
		err = fmt.Errorf("failed to enqueue callback for order %s: %w", payload.OrderID, err)
		d.drop(payload, err)
		return err
	}
	return nil
}

func (d *Dispatcher) drop(payload *Payload, err error) {
	metrics.CallbacksTotal.WithLabelValues(ResultDropped).Inc()
	d.logger.Error("callback dropped", "order.id", payload.OrderID, "user", payload.User, "error", err)
}

// Start launches the worker pool
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mux.Lock()
	defer d.mux.Unlock()
	if d.started {
		return nil
	}
	if d.stopped {
		return ErrStopped
	}
	workerCtx, cancel := context.WithCancel(ctx)
	d.cancelFn = cancel
	d.started = true
	for i := 0; i < d.config.Workers; i++ {
		d.workerWg.Add(1)
		go d.run(workerCtx, i)
	}
	return nil
}

// Shutdown stops accepting notifications, waits for queued ones to be
// delivered until ctx is done, then stops the workers.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.mux.Lock()
	d.stopped = true
	started := d.started
	cancel := d.cancelFn
	d.mux.Unlock()
	if !started {
		return
	}
	if sizer, ok := d.queue.(interface{ Size() int }); ok {
		ticker := time.NewTicker(10 * time.Millisecond)
	drain:
		for sizer.Size() > 0 {
			select {
			case <-ctx.Done():
				break drain
			case <-ticker.C:
			}
		}
		ticker.Stop()
	}
	cancel()
	d.workerWg.Wait()
}

// DeadLetters returns the number of failed deliveries kept by the queue
func (d *Dispatcher) DeadLetters() int {
	if dlq, ok := d.queue.(interface{ DLQSize() int }); ok {
		return dlq.DLQSize()
	}
	return 0
}

func (d *Dispatcher) run(ctx context.Context, id int) {
	defer d.workerWg.Done()
	for {
		msg, err := d.queue.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if msg == nil {
			continue
		}
		d.process(ctx, id, msg)
	}
}

func (d *Dispatcher) process(ctx context.Context, workerID int, msg messaging.Message[Notification]) {
	notification := msg.T()
	started := time.Now()
	err := d.post(context.WithoutCancel(ctx), notification)
	metrics.CallbackDuration.Observe(time.Since(started).Seconds())
	payload := &notification.Payload
	if err != nil {
		metrics.CallbacksTotal.WithLabelValues(ResultFailed).Inc()
		d.logger.Error("callback failed", "worker", workerID, "order.id", payload.OrderID, "user", payload.User, "url", notification.URL, "error", err)
		_ = msg.Nack(err)
		return
	}
	metrics.CallbacksTotal.WithLabelValues(ResultDelivered).Inc()
	d.logger.Info("callback delivered", "worker", workerID, "order.id", payload.OrderID, "user", payload.User, "status", payload.Status)
	_ = msg.Ack()
}

func (d *Dispatcher) post(ctx context.Context, notification *Notification) (err error) {
	ctx, span := tracing.StartSpan(ctx, "callback.post", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"order.id": notification.Payload.OrderID, "user": notification.Payload.User})

	body, err := json.Marshal(&notification.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notification.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	span.SetStatusFromHTTPCode(resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// New creates a dispatcher; call Start to begin delivery
func New(options ...Option) (*Dispatcher, error) {
	d := &Dispatcher{config: DefaultConfig()}
	for _, opt := range options {
		opt(d)
	}
	if d.config.EnqueueTimeout <= 0 {
		d.config.EnqueueTimeout = DefaultConfig().EnqueueTimeout
	}
	if err := d.config.Validate(); err != nil {
		return nil, err
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: d.config.Timeout}
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.queue == nil {
		d.queue = memory.NewQueue[Notification](memory.Config{
			MaxRetries:  0,
			DeadLetter:  true,
			QueueBuffer: d.config.QueueBuffer,
		})
	}
	return d, nil
}
