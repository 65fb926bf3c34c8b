package approval

import (
	"log/slog"

	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/event"
	"github.com/viant/chatapproval/service/transport"
)

// Option customises the engine
type Option func(*Service)

// WithStore sets the order store
func WithStore(store *order.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithTransport sets the transport used for acknowledgements
func WithTransport(transport transport.Transport) Option {
	return func(s *Service) {
		s.transport = transport
	}
}

// WithNotifier sets the callback notifier
func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

// WithConfig sets the engine configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEvents sets the order event sink
func WithEvents(sink event.Sink) Option {
	return func(s *Service) {
		s.events = sink
	}
}
