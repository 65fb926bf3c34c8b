package approval

import (
	"fmt"
	"strings"
)

// Mixed response policies
const (
	// MixedPolicySettle settles unanimous-less orders with StatusMixed
	MixedPolicySettle = "settle"
	// MixedPolicyHold keeps such orders pending
	MixedPolicyHold = "hold"
)

// Messages holds acknowledgement templates; %s receives the order id, or
// the reason for RejectReason.
type Messages struct {
	NotFound         string `json:"notFound,omitempty" yaml:"notFound,omitempty" mapstructure:"notFound"`
	AlreadyResponded string `json:"alreadyResponded,omitempty" yaml:"alreadyResponded,omitempty" mapstructure:"alreadyResponded"`
	Approved         string `json:"approved,omitempty" yaml:"approved,omitempty" mapstructure:"approved"`
	Rejected         string `json:"rejected,omitempty" yaml:"rejected,omitempty" mapstructure:"rejected"`
	RejectReason     string `json:"rejectReason,omitempty" yaml:"rejectReason,omitempty" mapstructure:"rejectReason"`
}

// Config represents engine settings
type Config struct {
	MixedPolicy string   `json:"mixedPolicy,omitempty" yaml:"mixedPolicy,omitempty" mapstructure:"mixedPolicy"`
	Messages    Messages `json:"messages,omitempty" yaml:"messages,omitempty" mapstructure:"messages"`
}

// DefaultMessages returns the default acknowledgement texts
func DefaultMessages() Messages {
	return Messages{
		NotFound:         "Order %s was not found.",
		AlreadyResponded: "You have already responded to order #%s.",
		Approved:         "You approved order #%s",
		Rejected:         "You rejected order #%s",
		RejectReason:     "\nReason: %s",
	}
}

// DefaultConfig returns the default engine configuration
func DefaultConfig() Config {
	return Config{MixedPolicy: MixedPolicySettle, Messages: DefaultMessages()}
}

// Init fills in missing values with defaults
func (c *Config) Init() {
	if c.MixedPolicy == "" {
		c.MixedPolicy = MixedPolicySettle
	}
	c.MixedPolicy = strings.ToLower(c.MixedPolicy)
	defaults := DefaultMessages()
	if c.Messages.NotFound == "" {
		c.Messages.NotFound = defaults.NotFound
	}
	if c.Messages.AlreadyResponded == "" {
		c.Messages.AlreadyResponded = defaults.AlreadyResponded
	}
	if c.Messages.Approved == "" {
		c.Messages.Approved = defaults.Approved
	}
	if c.Messages.Rejected == "" {
		c.Messages.Rejected = defaults.Rejected
	}
	if c.Messages.RejectReason == "" {
		c.Messages.RejectReason = defaults.RejectReason
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.MixedPolicy) {
	case "", MixedPolicySettle, MixedPolicyHold:
		return nil
	}
	return fmt.Errorf("unsupported mixed policy: %s", c.MixedPolicy)
}

func (c *Config) settleMixed() bool {
	return c.MixedPolicy != MixedPolicyHold
}
