package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoToken is returned when an authenticated call is attempted with no
// bearer token in the store. The call is short-circuited client side; no
// unauthenticated request is sent.
var ErrNoToken = errors.New("no session token; please sign in")

// TokenSource supplies the bearer credential for authenticated calls.
type TokenSource interface {
	Token() (string, bool)
}

// APIError is a backend-reported failure: a non-2xx status plus whatever
// human-readable message the response carried.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// UserMessage extracts the text to show the user for a failed call: the
// backend message when one exists, otherwise a generic line per error
// class.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNoToken):
		return ErrNoToken.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized:
		return "session expired; please sign in again"
	case err != nil:
		return "network error; please try again"
	}
	return ""
}

// BaseClient wraps HTTP plumbing shared by every API client: base URL,
// default headers, timeouts, and optional bearer auth.
type BaseClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	tokens  TokenSource
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetTokenSource wires the credential store used by the Auth* methods.
func (c *BaseClient) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// MakeRequest issues an unauthenticated request and returns the body.
func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	return c.do(ctx, method, endpoint, body, "")
}

// MakeAuthRequest issues a request with the stored bearer token. It fails
// with ErrNoToken before touching the network when no token is set.
func (c *BaseClient) MakeAuthRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	if c.tokens == nil {
		return nil, ErrNoToken
	}
	tok, ok := c.tokens.Token()
	if !ok {
		return nil, ErrNoToken
	}
	return c.do(ctx, method, endpoint, body, tok)
}

func (c *BaseClient) do(ctx context.Context, method, endpoint string, body io.Reader, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(responseBody, &msg); err == nil {
			apiErr.Message = msg.Message
		}
		return nil, apiErr
	}

	return responseBody, nil
}

func (c *BaseClient) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
}

func (c *BaseClient) Post(ctx context.Context, endpoint string, body io.Reader) ([]byte, error) {
	return c.MakeRequest(ctx, http.MethodPost, endpoint, body)
}

func (c *BaseClient) AuthGet(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeAuthRequest(ctx, http.MethodGet, endpoint, nil)
}

func (c *BaseClient) AuthPost(ctx context.Context, endpoint string, body io.Reader) ([]byte, error) {
	return c.MakeAuthRequest(ctx, http.MethodPost, endpoint, body)
}

func (c *BaseClient) AuthPut(ctx context.Context, endpoint string, body io.Reader) ([]byte, error) {
	return c.MakeAuthRequest(ctx, http.MethodPut, endpoint, body)
}

func (c *BaseClient) AuthDelete(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeAuthRequest(ctx, http.MethodDelete, endpoint, nil)
}
