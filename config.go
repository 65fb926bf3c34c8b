package chatapproval

import (
	"fmt"
	"strings"
	"time"

	"github.com/viant/chatapproval/internal/logging"
	"github.com/viant/chatapproval/service/approval"
	"github.com/viant/chatapproval/service/callback"
)

// Store kinds
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

// Transport kinds
const (
	TransportMemory  = "memory"
	TransportGateway = "gateway"
)

// Config is a serialisable representation of the service configuration.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Transport TransportConfig `json:"transport" yaml:"transport" mapstructure:"transport"`
	Callback  callback.Config `json:"callback" yaml:"callback" mapstructure:"callback"`
	Engine    approval.Config `json:"engine" yaml:"engine" mapstructure:"engine"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing" mapstructure:"tracing"`
	Log       logging.Config  `json:"log" yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP front door
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
	// APIKey protects mutating routes; APIKeyURL points to a scy secret
	// holding the key when APIKey is empty.
	APIKey       string        `json:"apiKey,omitempty" yaml:"apiKey,omitempty" mapstructure:"apiKey"`
	APIKeyURL    string        `json:"apiKeyURL,omitempty" yaml:"apiKeyURL,omitempty" mapstructure:"apiKeyURL"`
	SecretKey    string        `json:"secretKey,omitempty" yaml:"secretKey,omitempty" mapstructure:"secretKey"`
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout" mapstructure:"readTimeout"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout" mapstructure:"writeTimeout"`
}

// StoreConfig selects the order persister
type StoreConfig struct {
	Kind string `json:"kind" yaml:"kind" mapstructure:"kind"`
	// URL is the fs persister base URL (local path or afs URL)
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
	// Path is the sqlite database file
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// TransportConfig selects the chat transport
type TransportConfig struct {
	Kind      string        `json:"kind" yaml:"kind" mapstructure:"kind"`
	Gateway   GatewayConfig `json:"gateway" yaml:"gateway" mapstructure:"gateway"`
	RateLimit float64       `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty" mapstructure:"rateLimit"`
	Burst     int           `json:"burst,omitempty" yaml:"burst,omitempty" mapstructure:"burst"`
}

// GatewayConfig configures the HTTP chat gateway client
type GatewayConfig struct {
	BaseURL   string        `json:"baseURL,omitempty" yaml:"baseURL,omitempty" mapstructure:"baseURL"`
	Token     string        `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
	TokenURL  string        `json:"tokenURL,omitempty" yaml:"tokenURL,omitempty" mapstructure:"tokenURL"`
	SecretKey string        `json:"secretKey,omitempty" yaml:"secretKey,omitempty" mapstructure:"secretKey"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// TracingConfig configures OpenTelemetry export
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty" mapstructure:"outputFile"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Store: StoreConfig{
			Kind: StoreFS,
			URL:  "state",
			Path: "state/orders.db",
		},
		Transport: TransportConfig{
			Kind:    TransportGateway,
			Gateway: GatewayConfig{BaseURL: "http://localhost:3000", Timeout: 15 * time.Second},
			Burst:   1,
		},
		Callback: callback.DefaultConfig(),
		Engine:   approval.DefaultConfig(),
		Log:      logging.Config{Level: "info", Format: logging.FormatText},
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []string
	switch c.Store.Kind {
	case StoreMemory:
	case StoreFS:
		if c.Store.URL == "" {
			errs = append(errs, "store.url is required for fs store")
		}
	case StoreSQLite:
		if c.Store.Path == "" {
			errs = append(errs, "store.path is required for sqlite store")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported store.kind: %q", c.Store.Kind))
	}
	switch c.Transport.Kind {
	case TransportMemory:
	case TransportGateway:
		if c.Transport.Gateway.BaseURL == "" {
			errs = append(errs, "transport.gateway.baseURL is required for gateway transport")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported transport.kind: %q", c.Transport.Kind))
	}
	if c.Transport.RateLimit < 0 {
		errs = append(errs, "transport.rateLimit must be >= 0")
	}
	if err := c.Callback.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
