// Package api implements the HTTP client for the QuantumChat backend: user
// registration and login, room membership, the key distribution service, and
// the encrypted message store. It sees only ciphertext; every plaintext key
// stays in the caller's process.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultBaseURL = "http://localhost:8000"

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryConfig

	mu    sync.RWMutex
	token string
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets the maximum number of retry attempts.
func WithRetries(retries int) Option {
	return func(c *Client) {
		c.retry.MaxRetries = retries
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
func WithRetryOn(statusCodes []int) Option {
	return func(c *Client) {
		retryable := make(map[int]bool, len(statusCodes))
		for _, code := range statusCodes {
			retryable[code] = true
		}
		c.retry.RetryableOn = func(statusCode int) bool {
			return retryable[statusCode]
		}
	}
}

// New creates a new API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetToken sets the bearer token attached to subsequent requests.
// Login sets it; Logout clears it with an empty string.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs an HTTP request with JSON encoding and retry on transient
// failures. Retries are a transport concern only; callers never see a
// retried request as more than one logical operation.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if token := c.bearer(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			netErr := &NetworkError{Err: err, URL: url, Attempt: attempt}
			if attempt >= c.retry.MaxRetries || ctx.Err() != nil {
				return netErr
			}
			if err := c.retry.Wait(ctx, attempt); err != nil {
				return netErr
			}
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := parseErrorResponse(resp)
			resp.Body.Close()
			if !c.retry.ShouldRetry(attempt, resp.StatusCode) {
				return apiErr
			}
			if err := c.retry.Wait(ctx, attempt); err != nil {
				return apiErr
			}
			continue
		}

		if result != nil {
			err = json.NewDecoder(resp.Body).Decode(result)
		}
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func parseErrorResponse(resp *http.Response) *APIError {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Detail    string `json:"detail"`
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}

	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil {
		switch {
		case errResp.Detail != "":
			message = errResp.Detail
		case errResp.Error != "":
			message = errResp.Error
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		RequestID:  errResp.RequestID,
	}
}
