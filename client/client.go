// Package client uploads datasets to a regplot server and returns the chart.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/YuminosukeSato/regplot/pkg/errors"
	"github.com/go-resty/resty/v2"
)

const regressionPath = "/api/linear-regression"

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("regplot: server returned %d: %s", e.Status, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client represents a regplot HTTP client
type Client struct {
	baseURL string
	client  *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.SetTimeout(d)
	}
}

// WithRetry sets how often a 5xx response or transport error is retried and
// the initial wait between attempts.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *Client) {
		c.client.SetRetryCount(count)
		c.client.SetRetryWaitTime(wait)
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	client := resty.New()
	client.SetTimeout(60 * time.Second)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(200 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)
	client.SetRetryResetReaders(true)
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return resp.StatusCode() >= http.StatusInternalServerError
	})

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit uploads csv and returns the PNG chart of target regressed on features.
// Server-side failures are returned as *APIError.
func (c *Client) Fit(ctx context.Context, csv []byte, features []string, target string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", "data.csv", bytes.NewReader(csv)).
		SetFormData(map[string]string{
			"features": strings.Join(features, ","),
			"target":   target,
		}).
		SetError(&errorBody{}).
		Post(c.baseURL + regressionPath)
	if err != nil {
		return nil, errors.Wrap(err, "regplot: request failed")
	}

	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
			msg = body.Error
		}
		return nil, errors.WithStack(&APIError{Status: resp.StatusCode(), Message: msg})
	}
	return resp.Body(), nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.baseURL + "/health")
	if err != nil {
		return errors.Wrap(err, "regplot: health check failed")
	}
	if resp.StatusCode() != http.StatusOK {
		return errors.WithStack(&APIError{Status: resp.StatusCode(), Message: strings.TrimSpace(resp.String())})
	}
	return nil
}
