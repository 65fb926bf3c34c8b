// Package progress tallies recipient responses of an order.
package progress
