// Package client is a typed Go client for the repair-shop API.
//
// Credentials are request scoped: attach them to the context with
// WithCredentials and every call made with that context sends them.  The
// client itself holds no session state, so one Client can serve many users
// concurrently.
package client

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
)

// Credentials identify the caller of a request.  LocationID, when set, is
// sent as the X-Location-ID header.
type Credentials struct {
	AccessToken string
	LocationID  string
}

type credentialsKey struct{}

// WithCredentials returns a context that carries creds to every call made
// with it.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials attached to ctx.
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	c, ok := ctx.Value(credentialsKey{}).(Credentials)
	return c, ok
}

// AuthFailureFunc is called when the API rejects the credentials of a call
// with 401 or 403.  Typical handlers drop the stored session and send the
// user back to the login page.
type AuthFailureFunc func(ctx context.Context, err *APIError)

// APIError is a failure reported in the API's error envelope.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsAuthFailure reports whether the error means the credentials are
// missing or no longer valid.  A role denial is not an auth failure.
func (e *APIError) IsAuthFailure() bool {
	switch e.Status {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		return e.Message != "Insufficient permissions"
	}
	return false
}

// Client talks to one API deployment.
type Client struct {
	base          string
	http          *http.Client
	onAuthFailure AuthFailureFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// OnAuthFailure installs the hook run when a call is rejected for its
// credentials.
func OnAuthFailure(fn AuthFailureFunc) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// New builds a client for baseURL.  The /api prefix is appended when the
// URL does not already end with it.
func New(baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	c := &Client{base: base, http: &http.Client{Timeout: 15 * time.Second}}
	for _, o := range opts {
		o(c)
	}
	return c
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	} `json:"error"`
}

// do sends one request and decodes the data member of the envelope into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if creds, ok := CredentialsFrom(ctx); ok {
		if creds.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		}
		if creds.LocationID != "" {
			req.Header.Set("X-Location-ID", creds.LocationID)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("client: decode %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Fields = env.Error.Errors
		}
		if apiErr.IsAuthFailure() && c.onAuthFailure != nil && !isSessionEndpoint(path) {
			c.onAuthFailure(ctx, apiErr)
		}
		return apiErr
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode %s %s data: %w", method, path, err)
		}
	}
	return nil
}

// isSessionEndpoint covers the calls that establish a session; a rejected
// login is a wrong password, not an expired session.
func isSessionEndpoint(path string) bool {
	switch path {
	case "/auth/login", "/auth/register", "/auth/refresh":
		return true
	}
	return false
}
