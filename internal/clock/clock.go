// Package clock provides the time source for order timestamps.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now returns the current time in UTC.
func Now() time.Time { return NowFunc().UTC() }

// Freeze makes Now return at until the returned restore func is called.
func Freeze(at time.Time) (restore func()) {
	prev := NowFunc
	NowFunc = func() time.Time { return at }
	return func() { NowFunc = prev }
}
