// Package intake accepts new orders, delivers them to every recipient and
// registers them as pending once all deliveries succeeded.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/viant/chatapproval/internal/clock"
	"github.com/viant/chatapproval/internal/metrics"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/dao"
	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/event"
	"github.com/viant/chatapproval/service/transport"
	"github.com/viant/chatapproval/tracing"
)

// Service creates orders
type Service struct {
	store     *order.Store
	transport transport.Transport
	loader    *AttachmentLoader
	events    event.Sink
	logger    *slog.Logger

	mux      sync.Mutex
	reserved map[string]bool
}

// CreateOrder validates the request, sends the message and attachments to
// every recipient, then stores and flushes the pending order. Nothing is
// stored unless every send succeeded.
func (s *Service) CreateOrder(ctx context.Context, request *Request) (handle *Handle, err error) {
	ctx, span := tracing.StartSpan(ctx, "intake.CreateOrder", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	defer func() {
		if err != nil {
			metrics.IntakeFailuresTotal.WithLabelValues(failureReason(err)).Inc()
			s.logger.Error("order intake failed", "order.id", orderID(request), "error", err)
		}
	}()

	keys, err := request.Validate()
	if err != nil {
		return nil, err
	}
	id := strings.TrimSpace(request.OrderID)
	span.WithAttributes(map[string]string{"order.id": id})

	if !s.transport.Ready(ctx) {
		return nil, ErrTransportUnavailable
	}
	if err = s.reserve(ctx, id); err != nil {
		return nil, err
	}
	defer s.release(id)

	var images []*transport.Image
	for _, item := range request.Attachments.ordered() {
		image, lErr := s.loader.Load(ctx, item.value, item.caption)
		if lErr != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRequest, item.name, lErr)
		}
		images = append(images, image)
	}

	for _, key := range keys {
		if err = s.deliver(ctx, key, request.Message, images); err != nil {
			return nil, err
		}
	}

	anOrder := model.NewOrder(id, keys, strings.TrimSpace(request.CallbackURL), clock.Now())
	anOrder.Message = request.Message
	var created *event.OrderEvent
	err = s.store.Update(func() error {
		if sErr := s.store.Save(ctx, anOrder); sErr != nil {
			return sErr
		}
		if fErr := s.store.Flush(ctx); fErr != nil {
			_ = s.store.Delete(ctx, id)
			return fmt.Errorf("%w: order %s: %v", ErrPersistence, id, fErr)
		}
		created = event.NewOrderEvent(event.TypeOrderCreated, anOrder, "")
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			metrics.PersistenceFailuresTotal.Inc()
		}
		return nil, err
	}
	metrics.OrdersCreatedTotal.Inc()
	metrics.ActiveOrders.Set(float64(s.store.Len()))
	s.logger.Info("order created", "order.id", id, "recipients", len(keys), "attachments", len(images))
	if s.events != nil {
		if pErr := s.events.Publish(ctx, created); pErr != nil {
			s.logger.Warn("order event dropped", "order.id", id, "event", created.Context.EventType, "error", pErr)
		}
	}
	return &Handle{OrderID: id, Recipients: keys, Status: anOrder.Status, CreatedAt: anOrder.CreatedAt}, nil
}

func (s *Service) deliver(ctx context.Context, key, message string, images []*transport.Image) error {
	err := s.transport.Send(ctx, key, message)
	metrics.MessagesSentTotal.WithLabelValues("order", metrics.Result(err)).Inc()
	if err != nil {
		return deliveryError(key, "message", err)
	}
	for _, image := range images {
		err = s.transport.SendImage(ctx, key, image)
		metrics.MessagesSentTotal.WithLabelValues("image", metrics.Result(err)).Inc()
		if err != nil {
			return deliveryError(key, image.Caption, err)
		}
	}
	return nil
}

func deliveryError(key, what string, err error) error {
	if errors.Is(err, transport.ErrNotReady) {
		return fmt.Errorf("%w: %s to %s: %v", ErrTransportUnavailable, what, key, err)
	}
	return fmt.Errorf("%w: %s to %s: %v", ErrDelivery, what, key, err)
}

// reserve claims id for the duration of an intake
func (s *Service) reserve(ctx context.Context, id string) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.reserved[reservationKey(id)] {
		return fmt.Errorf("%w: %s is being created", ErrOrderExists, id)
	}
	if existing, err := s.store.Lookup(ctx, id); err == nil {
		return fmt.Errorf("%w: %s (active as %s)", ErrOrderExists, id, existing.ID)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return err
	}
	s.reserved[reservationKey(id)] = true
	return nil
}

// reservationKey folds case; replies match ids case-insensitively, so ids
// differing only by case would be ambiguous.
func reservationKey(id string) string {
	return strings.ToLower(id)
}

func (s *Service) release(id string) {
	s.mux.Lock()
	delete(s.reserved, reservationKey(id))
	s.mux.Unlock()
}

func orderID(request *Request) string {
	if request == nil {
		return ""
	}
	return request.OrderID
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrOrderExists):
		return "exists"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, ErrTransportUnavailable):
		return "unavailable"
	case errors.Is(err, ErrDelivery):
		return "delivery"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	}
	return "other"
}

// New creates an intake service
func New(options ...Option) (*Service, error) {
	s := &Service{reserved: map[string]bool{}}
	for _, opt := range options {
		opt(s)
	}
	if s.store == nil {
		return nil, fmt.Errorf("order store is required")
	}
	if s.transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if s.loader == nil {
		s.loader = NewAttachmentLoader()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}
