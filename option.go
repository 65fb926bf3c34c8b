package chatapproval

import (
	"log/slog"

	"github.com/viant/chatapproval/service/dao/order"
	"github.com/viant/chatapproval/service/event"
	"github.com/viant/chatapproval/service/transport"
	"github.com/viant/chatapproval/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option represents service option
type Option func(s *Service)

// WithConfig sets the service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTransport overrides the configured chat transport
func WithTransport(transport transport.Transport) Option {
	return func(s *Service) {
		s.transport = transport
	}
}

// WithPersister overrides the configured order persister
func WithPersister(persister order.Persister) Option {
	return func(s *Service) {
		s.persister = persister
	}
}

// WithEventHandler registers a handler for order lifecycle events
func WithEventHandler(handler func(*event.OrderEvent)) Option {
	return func(s *Service) {
		s.handlers = append(s.handlers, handler)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
// The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
