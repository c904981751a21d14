// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jeranaias/chatterm/internal/util"
)

// Configuration defaults.
const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxRetries applies to DeleteSession only.
	DefaultMaxRetries = 2

	// DefaultRateLimit is the steady-state requests per second.
	DefaultRateLimit = 2.0

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 1 << 20

	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 5 * time.Second

	// errorSnippetLen bounds raw body text copied into a ServerError.
	errorSnippetLen = 200
)

// ChatRequest is the body of POST /chat. A nil SessionID encodes as null.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// NewChatRequest builds a request, sending null when sessionID is empty.
func NewChatRequest(message, sessionID string) ChatRequest {
	req := ChatRequest{Message: message}
	if sessionID != "" {
		req.SessionID = &sessionID
	}
	return req
}

// ChatResponse is the decoded success body of POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
	Intent    string `json:"intent,omitempty"`
}

// chatResponseWire distinguishes a missing "response" from an empty one.
type chatResponseWire struct {
	Response  *string `json:"response"`
	SessionID string  `json:"session_id"`
	Intent    string  `json:"intent"`
}

// errorBody is the conventional {"error": "..."} failure body.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the chat backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	userAgent  string
}

// New creates a client for baseURL. A trailing slash is ignored.
func New(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		userAgent:  "chatterm/1.0",
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithMaxRetries sets how many times DeleteSession retries.
func (c *Client) WithMaxRetries(n int) *Client {
	if n < 0 {
		n = 0
	}
	c.maxRetries = n
	return c
}

// WithRateLimit sets the client-side request rate. Zero or negative
// disables limiting.
func (c *Client) WithRateLimit(perSecond float64) *Client {
	if perSecond <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Chat sends one message. It is never retried.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	status, respBody, err := c.do(ctx, http.MethodPost, c.baseURL+"/chat", body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newServerError(status, respBody)
	}

	var wire chatResponseWire
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if wire.Response == nil {
		return nil, fmt.Errorf("%w: missing \"response\" field", ErrMalformedResponse)
	}

	return &ChatResponse{
		Response:  *wire.Response,
		SessionID: wire.SessionID,
		Intent:    wire.Intent,
	}, nil
}

// DeleteSession asks the backend to forget a session. The response body is
// ignored. Transport errors and 5xx responses are retried.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id is empty")
	}
	endpoint := c.baseURL + "/session/" + url.PathEscape(sessionID)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return &TransportError{URL: c.baseURL, Err: ctx.Err()}
			case <-time.After(calculateBackoff(attempt - 1)):
			}
		}

		status, body, err := c.do(ctx, http.MethodDelete, endpoint, nil)
		if err == nil {
			if status >= 200 && status <= 299 {
				return nil
			}
			err = newServerError(status, body)
		}

		lastErr = err
		if !isRetryable(ctx, err) {
			return err
		}
		log.Debug().Int("attempt", attempt+1).Err(err).Msg("delete session failed, retrying")
	}
	return lastErr
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request and returns the status and a size-limited body.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &TransportError{URL: c.baseURL, Err: err}
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	// Bodies are never logged; they hold user text.
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Str("method", method).Str("path", req.URL.Path).Err(err).Msg("request failed")
		return 0, nil, &TransportError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	log.Debug().
		Str("method", method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request complete")

	respBody, err := readResponse(resp)
	if err != nil {
		if errors.Is(err, ErrMalformedResponse) {
			return resp.StatusCode, nil, err
		}
		return resp.StatusCode, nil, &TransportError{URL: c.baseURL, Err: err}
	}
	return resp.StatusCode, respBody, nil
}

// readResponse reads at most MaxResponseSize bytes of the body.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, MaxResponseSize)
	}
	return body, nil
}

// newServerError builds a ServerError, preferring a JSON error message.
func newServerError(status int, body []byte) *ServerError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return &ServerError{Status: status, Message: eb.Error}
		}
		if eb.Message != "" {
			return &ServerError{Status: status, Message: eb.Message}
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = statusMessage(status)
	}
	return &ServerError{Status: status, Message: util.TruncateRunes(msg, errorSnippetLen)}
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return IsTransport(err)
}

// calculateBackoff returns 500ms, 1s, 2s, ... capped at retryMaxDelay.
func calculateBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * time.Duration(1<<uint(attempt))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}
