package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jasper/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:8000"

// Client talks to the Jasper backend. One instance is shared by the chat
// cycle, both pollers, and action dispatch; it holds no mutable state beyond
// the underlying http.Client.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query submits one chat query and returns the backend's reply.
func (c *Client) Query(ctx context.Context, query string) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/query", QueryRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping probes backend liveness with the sentinel query. Only the HTTP
// status is inspected; the reply body is discarded.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/query", QueryRequest{Query: PingQuery}, nil)
}

// Restart asks the backend to restart itself. The signal is best-effort:
// the backend exits shortly after replying, so transport errors here carry
// no information and callers are expected to discard them.
func (c *Client) Restart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/restart", nil, nil)
}

// IndexStatus fetches the current background-indexing snapshot.
func (c *Client) IndexStatus(ctx context.Context) (*types.IndexStatus, error) {
	var status types.IndexStatus
	if err := c.doJSON(ctx, http.MethodGet, "/index-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Open asks the backend to open an item in its native application. Failure
// is returned for logging only; callers never surface or retry it.
func (c *Client) Open(ctx context.Context, id string, provider types.Provider) error {
	var resp StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/open", OpenRequest{ID: id, Provider: provider}, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "ok" {
		return fmt.Errorf("open %s: %s", strings.ToLower(resp.Status), resp.Message)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Content string `json:"content"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := payload.Error
	if message == "" {
		message = payload.Message
	}
	if message == "" {
		message = payload.Content
	}
	if message == "" {
		message = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
