// Package client talks to the remote briefing API. Every response is
// wrapped in a {success, data, meta} envelope; success=false is treated the
// same as a transport failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every remote call
const DefaultTimeout = 10 * time.Second

// Meta is the envelope metadata attached to every response
type Meta struct {
	RequestID   string `json:"requestId"`
	GeneratedAt string `json:"generatedAt"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Meta    Meta      `json:"meta"`
	Error   *apiError `json:"error,omitempty"`
}

// Client communicates with the briefing API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A non-positive timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// call performs a request and decodes the envelope's data into out. out may
// be nil when the response carries no payload.
func call[T any](ctx context.Context, c *Client, op, method, path string, body any, out *T) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("marshalling request: %w", err)}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil && len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("malformed payload: %w", err)}
	}
	if !env.Success {
		msg := "unsuccessful response"
		if env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Code + ": " + env.Error.Message
		}
		return &TransportError{Op: op, Body: msg}
	}
	if out != nil {
		*out = env.Data
	}
	return nil
}

// parseTimestamp accepts RFC3339 and the zone-less ISO form the backend
// emits for naive datetimes (read as UTC).
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC)
}
