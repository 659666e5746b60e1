// Package apiclient is the shared plumbing for talking to the remote
// dailybite services: request building, auth, JSON decoding, and the mapping
// of HTTP failures onto the domain error taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mkowalik/dailybite/internal/domain"
	"github.com/mkowalik/dailybite/internal/session"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	logger  *slog.Logger
}

// New creates a client for one service base URL. session may be nil for
// unauthenticated services; a nil logger falls back to slog.Default.
func New(baseURL string, httpClient *http.Client, sess *session.Session, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, http: httpClient, session: sess, logger: logger}
}

// Do issues one JSON request. A nil in skips the request body; a nil out
// discards the response body. Transport failures and 5xx responses map to
// domain.ErrTransient, 404 to domain.ErrNotFound, 409 to domain.ErrConflict,
// and 400/422 to domain.ErrValidation.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.session != nil {
		c.session.Authorize(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrTransient, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(method, path, resp.StatusCode, errBody)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(method, path string, status int, body []byte) error {
	var kind error
	switch {
	case status == http.StatusNotFound:
		kind = domain.ErrNotFound
	case status == http.StatusConflict:
		kind = domain.ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	default:
		kind = domain.ErrTransient
	}
	return fmt.Errorf("%s %s: %w: status %d: %s", method, path, kind, status, bytes.TrimSpace(body))
}
