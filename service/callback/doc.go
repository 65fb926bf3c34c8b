// Package callback delivers per-recipient approval results to the webhook
// registered with an order. Notifications are queued and posted by a pool
// of workers; delivery is at most once and failures are only logged,
// counted and dead-lettered.
package callback
