// Package logging builds the structured logger shared by all services.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Formats supported by New
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents logger settings
type Config struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" mapstructure:"level"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`
}

// Validate checks level and format values
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", FormatText, FormatJSON:
		return nil
	}
	return fmt.Errorf("unsupported log format: %s", c.Format)
}

// ParseLevel converts a level name into slog.Level; empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unsupported log level: %s", level)
}

// New creates a logger writing to w (os.Stderr when nil).
func New(cfg Config, w io.Writer) (*slog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}
	level, _ := ParseLevel(cfg.Level)
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == FormatJSON {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	return slog.New(handler).With("service", "chatapproval"), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
