package callback

import (
	"log/slog"
	"net/http"

	"github.com/viant/chatapproval/service/messaging"
)

// Option customises a Dispatcher
type Option func(*Dispatcher)

// WithConfig sets the dispatcher configuration
func WithConfig(config Config) Option {
	return func(d *Dispatcher) {
		d.config = config
	}
}

// WithHTTPClient sets the client used to post callbacks
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		d.client = client
	}
}

// WithQueue sets the notification queue
func WithQueue(queue messaging.Queue[Notification]) Option {
	return func(d *Dispatcher) {
		d.queue = queue
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}
