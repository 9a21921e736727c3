// Package transport is the admin API's HTTP client. Cross-cutting behaviour
// (credentials, session invalidation, metrics, tracing) is layered on as
// Middleware around a single round-trip Handler.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

const (
	DefaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

// Handler performs one round trip. call is the originating request
// description; middlewares read its options.
type Handler func(ctx context.Context, call *ports.APIRequest, req *http.Request) (*http.Response, error)

// Middleware decorates a Handler.
type Middleware func(next Handler) Handler

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Middleware []Middleware
	Logger     zerolog.Logger
}

// Client is the shared admin API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	handler Handler
	log     zerolog.Logger
}

// New builds a Client. Middleware run in the order given: the first one sees
// the request first and the response last.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	h := Handler(func(_ context.Context, _ *ports.APIRequest, req *http.Request) (*http.Response, error) {
		return hc.Do(req)
	})
	for i := len(opts.Middleware) - 1; i >= 0; i-- {
		h = opts.Middleware[i](h)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		handler: h,
		log:     opts.Logger,
	}
}

// Do sends call and decodes a 2xx JSON body into out. Non-2xx responses are
// returned as *domain.APIError; transport failures are wrapped as-is.
func (c *Client) Do(ctx context.Context, call ports.APIRequest, out any) error {
	req, err := c.newRequest(ctx, &call)
	if err != nil {
		return err
	}

	resp, err := c.handler(ctx, &call, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
	}
	return parseResponse(resp, out)
}

func (c *Client) newRequest(ctx context.Context, call *ports.APIRequest) (*http.Request, error) {
	if call.Method == "" {
		call.Method = http.MethodGet
	}

	var body io.Reader
	if call.Body != nil {
		buf, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	target := c.baseURL + "/" + strings.TrimLeft(call.Path, "/")
	if len(call.Query) > 0 {
		target += "?" + call.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// errorBody is the subset of the API envelope used in error responses.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func parseResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &domain.APIError{StatusCode: resp.StatusCode, Body: raw}

		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err == nil {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ ports.APIClient = (*Client)(nil)
