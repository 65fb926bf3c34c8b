package chatapproval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/viant/chatapproval/internal/logging"
	"github.com/viant/chatapproval/internal/metrics"
	"github.com/viant/chatapproval/internal/secret"
	"github.com/viant/chatapproval/model"
	"github.com/viant/chatapproval/progress"
	"github.com/viant/chatapproval/service/approval"
	"github.com/viant/chatapproval/service/callback"
	"github.com/viant/chatapproval/service/dao"
	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/event"
	ofs "github.com/viant/chatapproval/service/dao/order/fs"
	omemory "github.com/viant/chatapproval/service/dao/order/memory"
	osqlite "github.com/viant/chatapproval/service/dao/order/sqlite"
	"github.com/viant/chatapproval/service/identity"
	"github.com/viant/chatapproval/service/intake"
	mmemory "github.com/viant/chatapproval/service/messaging/memory"
	"github.com/viant/chatapproval/service/transport"
	"github.com/viant/chatapproval/service/transport/gateway"
	tmemory "github.com/viant/chatapproval/service/transport/memory"
	"github.com/viant/chatapproval/tracing"
)

// Status reports transport readiness and the number of active orders
type Status struct {
	Connected    bool `json:"connected"`
	ActiveOrders int  `json:"activeOrders"`
}

// SendResult is returned by Send
type SendResult struct {
	Success bool   `json:"success"`
	To      string `json:"to"`
	Text    string `json:"text"`
}

const (
	eventBuffer         = 1024
	eventPublishTimeout = 50 * time.Millisecond
)

// inboundSource is implemented by transports that push inbound messages
type inboundSource interface {
	OnMessage(handler transport.Handler)
}

// Service wires the approval components together
type Service struct {
	config     *Config
	logger     *slog.Logger
	secrets    *secret.Service
	persister  order.Persister
	store      *order.Store
	transport  transport.Transport
	source     inboundSource
	dispatcher *callback.Dispatcher
	engine     *approval.Service
	intake     *intake.Service
	events     *event.Publisher[*model.Order]
	listener   *event.Listener[*model.Order]
	handlers   []func(*event.OrderEvent)

	mux     sync.Mutex
	started bool
}

// Start restores persisted orders, starts callback workers and subscribes
// the engine to inbound messages.
func (s *Service) Start(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.started {
		return nil
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Init(ServiceName, Version, s.config.Tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	count, err := s.store.Restore(ctx)
	if err != nil {
		return err
	}
	metrics.ActiveOrders.Set(float64(count))
	s.logger.Info("loaded active orders", "count", count)
	if err = s.dispatcher.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	s.listener.Start(context.WithoutCancel(ctx))
	if s.source != nil {
		s.source.OnMessage(s.engine.Handler())
	}
	s.started = true
	return nil
}

// Shutdown drains pending callbacks and releases resources
func (s *Service) Shutdown(ctx context.Context) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	s.dispatcher.Shutdown(ctx)
	s.listener.Stop()
	var errs []error
	if closer, ok := s.persister.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	if s.config.Tracing.Enabled {
		if err := tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CreateOrder sends an order to its recipients and registers it
func (s *Service) CreateOrder(ctx context.Context, request *intake.Request) (*intake.Handle, error) {
	return s.intake.CreateOrder(ctx, request)
}

// HandleMessage applies an inbound chat message
func (s *Service) HandleMessage(ctx context.Context, message *transport.Message) (*approval.Outcome, error) {
	return s.engine.HandleMessage(ctx, message)
}

// Send delivers a plain text message outside of any order
func (s *Service) Send(ctx context.Context, to, text string) (*SendResult, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: to and text are required", intake.ErrInvalidRequest)
	}
	key := identity.Normalize(to)
	if key == "" {
		return nil, fmt.Errorf("%w: invalid recipient %q", intake.ErrInvalidRequest, to)
	}
	if !s.transport.Ready(ctx) {
		return nil, intake.ErrTransportUnavailable
	}
	err := s.transport.Send(ctx, key, text)
	metrics.MessagesSentTotal.WithLabelValues("text", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", intake.ErrDelivery, err)
	}
	return &SendResult{Success: true, To: to, Text: text}, nil
}

// Status returns the transport readiness and active order count
func (s *Service) Status(ctx context.Context) *Status {
	return &Status{Connected: s.transport.Ready(ctx), ActiveOrders: s.store.Len()}
}

// Logout ends the chat session
func (s *Service) Logout(ctx context.Context) error {
	if err := s.transport.Logout(ctx); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	s.logger.Info("chat session logged out")
	return nil
}

// Orders lists active orders, optionally only those awaiting or answered by recipient
func (s *Service) Orders(ctx context.Context, recipient string) ([]*model.Order, error) {
	var parameters []*dao.Parameter
	if recipient != "" {
		key := identity.Normalize(recipient)
		if key == "" {
			return nil, fmt.Errorf("%w: invalid recipient %q", intake.ErrInvalidRequest, recipient)
		}
		parameters = append(parameters, dao.NewParameter(dao.ParameterRecipient, key))
	}
	return s.store.Snapshot(ctx, parameters...)
}

// APIKey returns the key protecting mutating routes, resolved from the
// secret store when only server.apiKeyURL is configured.
func (s *Service) APIKey(ctx context.Context) (string, error) {
	server := s.config.Server
	return s.secrets.Resolve(ctx, server.APIKey, server.APIKeyURL, server.SecretKey)
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Logger returns the service logger
func (s *Service) Logger() *slog.Logger {
	return s.logger
}

func (s *Service) init(ctx context.Context) error {
	var err error
	if s.logger == nil {
		if s.logger, err = logging.New(s.config.Log, nil); err != nil {
			return err
		}
	}
	if s.persister == nil {
		if s.persister, err = s.newPersister(ctx); err != nil {
			return err
		}
	}
	s.store = order.New(s.persister)
	if s.transport == nil {
		if s.transport, err = s.newTransport(ctx); err != nil {
			return err
		}
	}
	s.source, _ = s.transport.(inboundSource)
	if rate := s.config.Transport.RateLimit; rate > 0 {
		s.transport = transport.NewThrottle(s.transport, rate, s.config.Transport.Burst)
	}
	queue := mmemory.NewQueue[event.OrderEvent](mmemory.Config{QueueBuffer: eventBuffer})
	s.events = event.NewPublisher[*model.Order](queue, eventPublishTimeout)
	s.listener = event.NewListener[*model.Order](s.events, s.handleEvent, func(err error) {
		s.logger.Warn("order event consume failed", "error", err)
	})
	if s.dispatcher, err = callback.New(callback.WithConfig(s.config.Callback), callback.WithLogger(s.logger)); err != nil {
		return err
	}
	if s.engine, err = approval.New(
		approval.WithStore(s.store),
		approval.WithTransport(s.transport),
		approval.WithNotifier(s.dispatcher),
		approval.WithConfig(s.config.Engine),
		approval.WithEvents(s.events),
		approval.WithLogger(s.logger)); err != nil {
		return err
	}
	s.intake, err = intake.New(
		intake.WithStore(s.store),
		intake.WithTransport(s.transport),
		intake.WithAttachmentLoader(intake.NewAttachmentLoader()),
		intake.WithEvents(s.events),
		intake.WithLogger(s.logger))
	return err
}

// handleEvent writes the audit log entry and runs registered handlers
func (s *Service) handleEvent(anEvent *event.OrderEvent) {
	s.logger.Info("order event",
		"event", anEvent.Context.EventType,
		"order.id", anEvent.Context.OrderID,
		"recipient", anEvent.Context.Recipient,
		"status", anEvent.Data.Status,
		"progress", progress.Of(anEvent.Data).String())
	for _, handler := range s.handlers {
		handler(anEvent)
	}
}

func (s *Service) newPersister(ctx context.Context) (order.Persister, error) {
	switch s.config.Store.Kind {
	case StoreMemory:
		return omemory.New(), nil
	case StoreFS:
		return ofs.New(ctx, s.config.Store.URL)
	case StoreSQLite:
		return osqlite.New(ctx, s.config.Store.Path)
	}
	return nil, fmt.Errorf("unsupported store kind: %s", s.config.Store.Kind)
}

func (s *Service) newTransport(ctx context.Context) (transport.Transport, error) {
	switch s.config.Transport.Kind {
	case TransportMemory:
		return tmemory.New(), nil
	case TransportGateway:
		cfg := s.config.Transport.Gateway
		token, err := s.secrets.Resolve(ctx, cfg.Token, cfg.TokenURL, cfg.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve gateway token: %w", err)
		}
		return gateway.New(cfg.BaseURL, token, cfg.Timeout)
	}
	return nil, fmt.Errorf("unsupported transport kind: %s", s.config.Transport.Kind)
}

// New creates a service; components not supplied through options are built
// from the configuration.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig(), secrets: secret.New()}
	for _, option := range options {
		option(ret)
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if err := ret.init(ctx); err != nil {
		return nil, err
	}
	metrics.Register()
	return ret, nil
}
