package vision

import (
	"net/http"
	"time"
)

// ClientOption configures the inference client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout for sidecar calls.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpc.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpc = hc
	}
}
