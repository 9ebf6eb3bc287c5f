// Package api is the client for the restaurant admin REST backend.
//
// Every call is a single round trip: no retries, no client-side timeout and
// no caching. Cancellation is through the context. Failures are reported as
// *APIError (non-2xx), *NetworkError (no response) or *DecodeError
// (unreadable success body).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arthur-debert/menuadmin/types"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// TokenSource supplies the bearer token for outgoing requests
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the backend
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	logger         *slog.Logger
	onUnauthorized func()
	newRequestID   func() string
}

// Option modifies Client configuration
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the logger for request traces
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUnauthorizedHandler registers fn to run when an authenticated call is
// answered with 401. It runs before the error is returned to the caller.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithRequestIDFunc overrides how X-Request-ID values are generated
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) {
		c.newRequestID = fn
	}
}

// New creates a client for the API rooted at baseURL,
// e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		logger:       slog.Default(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login
type LoginResponse struct {
	Token string           `json:"token"`
	User  types.UserRecord `json:"user"`
}

// Login exchanges credentials for a token. No bearer header is sent.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	const op = "login"
	body, err := c.do(ctx, op, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, false)
	if err != nil {
		return LoginResponse{}, err
	}

	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return LoginResponse{}, &DecodeError{Op: op, Err: err}
	}
	if resp.Token == "" {
		return LoginResponse{}, &DecodeError{Op: op, Err: errors.New("response has no token")}
	}
	return resp, nil
}

// ListMenuItems fetches the whole menu. The backend may answer with a bare
// array or with {"data": [...]}.
func (c *Client) ListMenuItems(ctx context.Context) ([]types.MenuItem, error) {
	const op = "list menu items"
	body, err := c.do(ctx, op, http.MethodGet, "/menu", nil, true)
	if err != nil {
		return nil, err
	}

	raw, err := listPayload(body)
	if err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}

	items := []types.MenuItem{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return items, nil
}

// CreateMenuItem submits a new dish and returns the stored record
func (c *Client) CreateMenuItem(ctx context.Context, draft types.MenuItemDraft) (types.MenuItem, error) {
	const op = "create menu item"
	body, err := c.do(ctx, op, http.MethodPost, "/menu", draft.Payload(), true)
	if err != nil {
		return types.MenuItem{}, err
	}
	return decodeItem(op, body)
}

// ReplaceMenuItem overwrites the dish with the given id
func (c *Client) ReplaceMenuItem(ctx context.Context, id string, draft types.MenuItemDraft) (types.MenuItem, error) {
	const op = "update menu item"
	body, err := c.do(ctx, op, http.MethodPut, "/menu/"+url.PathEscape(id), draft.Payload(), true)
	if err != nil {
		return types.MenuItem{}, err
	}
	return decodeItem(op, body)
}

// DeleteMenuItem removes the dish with the given id. Any response body is
// ignored.
func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete menu item", http.MethodDelete, "/menu/"+url.PathEscape(id), nil, true)
	return err
}

// do performs one request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, op, method, path string, payload interface{}, authenticated bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}

	requestID := c.newRequestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"op", op, "method", method, "path", path,
			"request_id", requestID, "error", err)
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("api request",
		"op", op, "method", method, "path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode, Message: serverMessage(body)}
		if authenticated && apiErr.Unauthorized() && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, apiErr
	}

	return body, nil
}

// serverMessage extracts {"message": "..."} (or {"error": "..."}) from an
// error body
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func listPayload(body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("body is not JSON")
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return body, nil
	}
	if data := root.Get("data"); data.IsArray() {
		return []byte(data.Raw), nil
	}
	return nil, errors.New(`expected an array or {"data": [...]}`)
}

func decodeItem(op string, body []byte) (types.MenuItem, error) {
	if !gjson.ValidBytes(body) {
		return types.MenuItem{}, &DecodeError{Op: op, Err: errors.New("body is not JSON")}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return types.MenuItem{}, &DecodeError{Op: op, Err: errors.New("expected an object")}
	}
	raw := body
	if data := root.Get("data"); data.IsObject() && !root.Get("_id").Exists() && !root.Get("id").Exists() {
		raw = []byte(data.Raw)
	}

	var item types.MenuItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return types.MenuItem{}, &DecodeError{Op: op, Err: err}
	}
	return item, nil
}
