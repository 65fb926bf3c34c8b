// Package transport defines the chat channel used to deliver approval
// requests and receive replies.
package transport

import (
	"context"
	"errors"
	"time"
)

// ErrNotReady is returned by sends attempted while the channel is disconnected
var ErrNotReady = errors.New("transport: not ready")

// Transport sends chat messages to addresses in normalized key form
type Transport interface {
	// Send delivers a plain text message
	Send(ctx context.Context, to, text string) error

	// SendImage delivers an image with an optional caption
	SendImage(ctx context.Context, to string, image *Image) error

	// Ready reports whether the channel is connected
	Ready(ctx context.Context) bool

	// Logout ends the chat session
	Logout(ctx context.Context) error
}

// Handler processes an inbound message
type Handler func(ctx context.Context, message *Message)

// Message represents an inbound chat message. Text holds the resolved
// message body: conversation text, extended text or image caption.
type Message struct {
	ID        string    `json:"id,omitempty"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	FromMe    bool      `json:"fromMe,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Image represents an outbound image; either URL or Data is set
type Image struct {
	URL      string `json:"url,omitempty"`
	Data     []byte `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Caption  string `json:"caption,omitempty"`
}
