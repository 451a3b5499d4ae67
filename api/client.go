package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the fallback backend address used when no server
// URL is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const defaultTimeout = 30 * time.Second

// TokenSource yields the bearer credential for outgoing requests. An
// empty string means no credential is available and the request goes
// out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the single dispatch point for backend requests.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new backend API client. tokens may be nil for a
// client that never authenticates.
func NewClient(baseURL string, tokens TokenSource, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: server URL is required", ErrInvalidConfig)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	client := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs an HTTP request against the backend. If a bearer token
// is available it is attached to the request. payload, when non-nil,
// is sent as a JSON body. The raw response body is returned for the
// caller to decode; non-2xx statuses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, endpoint, params, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, endpoint, nil, payload)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	return c.Do(ctx, http.MethodPut, endpoint, nil, payload)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// newAPIError decodes the backend error envelope into an *APIError.
// A body that is not a valid envelope still produces a usable error
// with the HTTP status text.
func (c *Client) newAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}

	var envelope Response
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Error
		if apiErr.Message == "" {
			apiErr.Message = envelope.Message
		}
		apiErr.Details = envelope.Details
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}

	return apiErr
}
