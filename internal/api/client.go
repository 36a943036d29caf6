package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUnauthorized is returned when a non-exempt call comes back 401.
	// The gateway has already cleared the session by the time callers see it.
	ErrUnauthorized = errors.New("authentication required")
	// ErrConflict is returned on a duplicate-resource response (409),
	// e.g. creating a bookmark whose URL already exists.
	ErrConflict = errors.New("duplicate resource")
	// ErrNotFound is returned on a 404.
	ErrNotFound = errors.New("not found")
	// ErrUnreachable wraps transport-level failures, as opposed to errors
	// the server returned.
	ErrUnreachable = errors.New("server unreachable")
)

// APIError is a non-auth, non-conflict error response from the server,
// carrying the human-readable detail message when one was provided.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// TokenSource supplies the bearer credential attached to non-exempt calls.
// The session store implements it.
type TokenSource interface {
	Token() string
}

// Client is the single HTTP gateway every other component calls through.
// It attaches the bearer credential to each request unless the call is
// exempt, and invokes the auth-failure handler on any 401 from a
// non-exempt call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	onAuthFail func()
}

// NewClient creates a gateway for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetTokenSource wires the credential supplier. Calls made before this is
// set behave as exempt.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetAuthFailureHandler wires the global 401 handler. It runs at most once
// per failing call, before the error is returned to the caller.
func (c *Client) SetAuthFailureHandler(fn func()) {
	c.onAuthFail = fn
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call through the gateway.
type request struct {
	method string
	path   string
	query  url.Values
	body   any    // JSON-encoded unless form is set
	form   url.Values
	exempt bool // skip bearer attachment and 401 handling
}

// do executes req and decodes a JSON response body into out when out is
// non-nil. Repeated query keys are emitted as repeated parameters
// (tags=a&tags=b), matching the server's array encoding.
func (c *Client) do(req request, out any) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.form != nil:
		body = strings.NewReader(req.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.body != nil:
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequest(req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if !req.exempt && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.statusError(resp.StatusCode, data, req.exempt)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// statusError maps an error response onto the client error taxonomy.
// 401 on a non-exempt call additionally fires the global auth-failure
// handler; the caller never sees it as a local error condition.
func (c *Client) statusError(status int, body []byte, exempt bool) error {
	detail := errorDetail(body)

	switch status {
	case http.StatusUnauthorized:
		if !exempt {
			if c.onAuthFail != nil {
				c.onAuthFail()
			}
			return ErrUnauthorized
		}
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
		}
		return ErrUnauthorized
	case http.StatusConflict:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrConflict, detail)
		}
		return ErrConflict
	case http.StatusNotFound:
		return ErrNotFound
	}

	return &APIError{Status: status, Detail: detail}
}

// errorDetail extracts the server's detail message, if any.
func errorDetail(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Message
}
