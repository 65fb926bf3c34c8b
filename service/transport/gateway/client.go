// Package gateway implements transport.Transport over the HTTP API of a chat
// gateway bridge.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/viant/chatapproval/service/transport"
)

const defaultTimeout = 15 * time.Second

// Client talks to the gateway bridge
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ transport.Transport = (*Client)(nil)

type sendRequest struct {
	To      string           `json:"to"`
	Type    string           `json:"type"`
	Text    string           `json:"text,omitempty"`
	Image   *transport.Image `json:"image,omitempty"`
	Caption string           `json:"caption,omitempty"`
}

type statusResponse struct {
	Connected bool `json:"connected"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Send(ctx context.Context, to, text string) error {
	return c.post(ctx, "/messages", &sendRequest{To: to, Type: "text", Text: text})
}

func (c *Client) SendImage(ctx context.Context, to string, image *transport.Image) error {
	if image == nil {
		return fmt.Errorf("image was nil")
	}
	return c.post(ctx, "/messages", &sendRequest{To: to, Type: "image", Image: image, Caption: image.Caption})
}

func (c *Client) Ready(ctx context.Context) bool {
	req, err := c.newRequest(ctx, http.MethodGet, "/status", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	status := &statusResponse{}
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		return false
	}
	return status.Connected
}

func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/logout", nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	apiErr := &errorResponse{}
	if json.Unmarshal(respBody, apiErr) == nil && apiErr.Error != "" {
		return fmt.Errorf("gateway %s returned %d: %s", path, resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("gateway %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// New creates a gateway client; timeout <= 0 uses a default
func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("gateway base URL cannot be empty")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}
