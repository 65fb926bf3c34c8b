// Package event publishes order lifecycle events over a messaging queue
// and dispatches them to listeners.
package event
