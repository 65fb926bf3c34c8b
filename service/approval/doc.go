// Package approval implements the order state machine. Replies parsed from
// chat messages are applied to active orders, settled orders leave the
// active store, every mutation is flushed before it counts, and each
// recorded response is reported to the order callback after the store lock
// is released.
package approval
