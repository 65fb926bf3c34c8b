// Package idgen generates opaque identifiers for queued callbacks and
// outbound messages. NewFunc can be stubbed in tests.
package idgen
