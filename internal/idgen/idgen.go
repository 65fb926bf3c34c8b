package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// WithPrefix returns a new identifier prefixed with prefix and a dash.
func WithPrefix(prefix string) string {
	if prefix == "" {
		return New()
	}
	return prefix + "-" + New()
}
