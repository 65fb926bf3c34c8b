package intake

import (
	"log/slog"

	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/event"
	"github.com/viant/chatapproval/service/transport"
)

// Option customises the intake service
type Option func(*Service)

// WithStore sets the order store
func WithStore(store *order.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithTransport sets the transport used to deliver orders
func WithTransport(transport transport.Transport) Option {
	return func(s *Service) {
		s.transport = transport
	}
}

// WithAttachmentLoader sets the attachment loader
func WithAttachmentLoader(loader *AttachmentLoader) Option {
	return func(s *Service) {
		s.loader = loader
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
