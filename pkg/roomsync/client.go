package roomsync

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to a WhenWorks server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the identity token sent on writes.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the server at baseURL, e.g.
// "https://when.example.com".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// IsNotFound reports whether the error is a 404 from the server.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// CreateIdentity mints an anonymous identity and stores its token on the
// client for subsequent writes. Returns the token.
func (c *Client) CreateIdentity(ctx context.Context) (string, error) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/anonymous", nil, &body); err != nil {
		return "", err
	}
	c.token = body.Token
	return body.Token, nil
}

// Bootstrap opens the room, creating it with default state when it does not
// exist. Reports whether this call created the room.
func (c *Client) Bootstrap(ctx context.Context, roomID string) (*Room, bool, error) {
	req := map[string]string{}
	if roomID != "" {
		req["room_id"] = roomID
	}
	var body struct {
		Room    *Room `json:"room"`
		Created bool  `json:"created"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/rooms", req, &body); err != nil {
		return nil, false, err
	}
	return body.Room, body.Created, nil
}

// GetRoom fetches the server's copy of the room.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodGet, "/api/v1/rooms/"+roomID, nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// Merge sends a partial update. Fields absent from the snapshot are left
// unchanged on the server. Returns the merged room.
func (c *Client) Merge(ctx context.Context, roomID string, snap Snapshot) (*Room, error) {
	var room Room
	if err := c.do(ctx, http.MethodPatch, "/api/v1/rooms/"+roomID, snap, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var reader io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// Best effort decode; the status code alone is still useful.
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if respBody != nil {
		if err := json.Unmarshal(data, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
