package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/viant/chatapproval/internal/clock"
	"github.com/viant/chatapproval/internal/metrics"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/service/callback"
	"github.com/viant/chatapproval/service/command"
	"github.com/viant/chatapproval/service/dao"
	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/event"
	"github.com/viant/chatapproval/service/identity"
	"github.com/viant/chatapproval/service/transport"
	"github.com/viant/chatapproval/tracing"
)

// Notifier delivers per-recipient results to an order callback
type Notifier interface {
	Notify(ctx context.Context, url string, payload *callback.Payload) error
}

// Service applies replies to active orders
type Service struct {
	config    Config
	store     *order.Store
	transport transport.Transport
	notifier  Notifier
	events    event.Sink
	logger    *slog.Logger
}

// ApplyReply applies intent sent by from to the order identified by orderID.
func (s *Service) ApplyReply(ctx context.Context, orderID, from string, intent *model.Intent) (outcome *Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.ApplyReply", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	if intent == nil {
		return nil, fmt.Errorf("intent was nil")
	}
	key := identity.Normalize(from)
	span.WithAttributes(map[string]string{"order.id": orderID, "recipient": key, "action": string(intent.Action)})

	var notification *callback.Payload
	var callbackURL string
	var snapshot *model.Order
	err = s.store.Update(func() error {
		anOrder, lErr := s.store.Lookup(ctx, orderID)
		if lErr != nil {
			if errors.Is(lErr, dao.ErrNotFound) || errors.Is(lErr, dao.ErrInvalidID) {
				outcome = &Outcome{Kind: OrderNotFound, OrderID: orderID, Recipient: key, Ack: fmt.Sprintf(s.config.Messages.NotFound, orderID)}
				return nil
			}
			return lErr
		}
		response := anOrder.Response(key)
		if response == nil {
			outcome = &Outcome{Kind: NotARecipient, OrderID: anOrder.ID, Recipient: key, Status: anOrder.Status}
			return nil
		}
		if response.State.IsSet() {
			outcome = &Outcome{Kind: AlreadyResponded, OrderID: anOrder.ID, Recipient: key, Status: anOrder.Status, Ack: fmt.Sprintf(s.config.Messages.AlreadyResponded, anOrder.ID)}
			return nil
		}

		previous := anOrder.Clone()
		now := clock.Now()
		response.State = intent.Action.State()
		response.RespondedAt = &now
		if response.State == model.StateRejected && intent.Reason != nil {
			reason := *intent.Reason
			response.RejectReason = &reason
		}
		anOrder.Status = anOrder.Evaluate(s.config.settleMixed())
		settled := anOrder.Status.IsTerminal()
		if settled {
			anOrder.SettledAt = &now
			if dErr := s.store.Delete(ctx, anOrder.ID); dErr != nil {
				*anOrder = *previous
				return dErr
			}
		}
		if fErr := s.store.Flush(ctx); fErr != nil {
			*anOrder = *previous
			if settled {
				_ = s.store.Save(ctx, anOrder)
			}
			return fmt.Errorf("%w: order %s: %v", ErrPersistence, anOrder.ID, fErr)
		}

		outcome = &Outcome{
			Kind:      Recorded,
			OrderID:   anOrder.ID,
			Recipient: key,
			Settled:   settled,
			Status:    anOrder.Status,
			Ack:       s.recordedAck(anOrder.ID, response),
		}
		callbackURL = anOrder.CallbackURL
		notification = callback.NewPayload(anOrder.ID, key, response)
		snapshot = anOrder.Clone()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			metrics.PersistenceFailuresTotal.Inc()
		}
		s.logger.Error("failed to apply reply", "order.id", orderID, "recipient", key, "error", err)
		return nil, err
	}

	metrics.RepliesTotal.WithLabelValues(string(outcome.Kind)).Inc()
	if outcome.Kind != Recorded {
		s.logger.Info("reply ignored", "order.id", orderID, "recipient", key, "outcome", outcome.Kind)
		return outcome, nil
	}
	metrics.ActiveOrders.Set(float64(s.store.Len()))
	if outcome.Settled {
		metrics.OrdersSettledTotal.WithLabelValues(string(outcome.Status)).Inc()
		s.logger.Info("order settled", "order.id", outcome.OrderID, "status", outcome.Status)
	}
	s.logger.Info("reply recorded", "order.id", outcome.OrderID, "recipient", key, "action", intent.Action, "status", outcome.Status)
	s.publish(ctx, event.TypeResponseRecorded, snapshot, key)
	if outcome.Settled {
		s.publish(ctx, event.TypeOrderSettled, snapshot, "")
	}
	if callbackURL != "" && s.notifier != nil {
		if nErr := s.notifier.Notify(ctx, callbackURL, notification); nErr != nil {
			s.logger.Warn("callback not queued", "order.id", outcome.OrderID, "recipient", key, "error", nErr)
		}
	}
	return outcome, nil
}

func (s *Service) publish(ctx context.Context, eventType string, snapshot *model.Order, recipient string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event.NewOrderEvent(eventType, snapshot, recipient)); err != nil {
		s.logger.Warn("order event dropped", "order.id", snapshot.ID, "event", eventType, "error", err)
	}
}

func (s *Service) recordedAck(orderID string, response *model.Response) string {
	if response.State == model.StateApproved {
		return fmt.Sprintf(s.config.Messages.Approved, orderID)
	}
	ack := fmt.Sprintf(s.config.Messages.Rejected, orderID)
	if response.RejectReason != nil {
		ack += fmt.Sprintf(s.config.Messages.RejectReason, *response.RejectReason)
	}
	return ack
}

// HandleMessage runs an inbound chat message through normalization, parsing
// and ApplyReply, then sends the acknowledgement. Skipped messages return a
// nil outcome; only engine failures are returned as errors.
func (s *Service) HandleMessage(ctx context.Context, message *transport.Message) (*Outcome, error) {
	if message == nil || message.FromMe {
		return nil, nil
	}
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil, nil
	}
	from := identity.Normalize(message.From)
	if from == "" {
		s.logger.Warn("message from invalid address ignored", "from", message.From)
		return nil, nil
	}
	intent, err := command.Parse(text)
	if err != nil {
		metrics.RepliesTotal.WithLabelValues("unrecognized").Inc()
		s.logger.Info("unrecognized message ignored", "from", from, "text", text)
		return nil, nil
	}
	outcome, err := s.ApplyReply(ctx, intent.OrderID, from, intent)
	if err != nil {
		return nil, err
	}
	if outcome.Ack != "" && s.transport != nil {
		sendErr := s.transport.Send(ctx, from, outcome.Ack)
		metrics.MessagesSentTotal.WithLabelValues("ack", metrics.Result(sendErr)).Inc()
		if sendErr != nil {
			s.logger.Warn("failed to send acknowledgement", "order.id", outcome.OrderID, "recipient", from, "error", sendErr)
		}
	}
	return outcome, nil
}

// Handler adapts HandleMessage to transport.Handler
func (s *Service) Handler() transport.Handler {
	return func(ctx context.Context, message *transport.Message) {
		_, _ = s.HandleMessage(ctx, message)
	}
}

// New creates an approval engine
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, opt := range options {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	s.config.Init()
	if s.store == nil {
		return nil, fmt.Errorf("order store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}
