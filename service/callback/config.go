package callback

import (
	"fmt"
	"time"
)

// Config represents dispatcher settings
type Config struct {
	// Workers is the number of goroutines posting callbacks
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" mapstructure:"workers"`
	// Timeout bounds a single webhook request
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
	// QueueBuffer is the number of notifications held before enqueue waits
	QueueBuffer int `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty" mapstructure:"queueBuffer"`
	// EnqueueTimeout bounds how long Notify waits for queue room
	EnqueueTimeout time.Duration `json:"enqueueTimeout,omitempty" yaml:"enqueueTimeout,omitempty" mapstructure:"enqueueTimeout"`
}

// DefaultConfig returns the default dispatcher configuration
func DefaultConfig() Config {
	return Config{
		Workers:        4,
		Timeout:        10 * time.Second,
		QueueBuffer:    256,
		EnqueueTimeout: 100 * time.Millisecond,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("callback workers must be positive: %d", c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("callback timeout must be positive: %v", c.Timeout)
	}
	if c.QueueBuffer <= 0 {
		return fmt.Errorf("callback queue buffer must be positive: %d", c.QueueBuffer)
	}
	return nil
}
