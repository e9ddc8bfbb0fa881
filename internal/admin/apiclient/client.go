package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Doer abstracts the ability to execute HTTP requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the HappyJobs admin API. It holds no state besides its
// configuration, so one Client may serve many concurrent calls.
type Client struct {
	baseURL string
	token   string
	doer    Doer
}

type Option func(*Client)

// WithToken sends token as a bearer Authorization header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		doer:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Request performs one call and returns the envelope's data payload.
// Failures are always *APIError. There are no retries and no timeout
// besides ctx.
func (c *Client) Request(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body any,
) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: "unreachable", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Message: "unreachable", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpError(resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &APIError{Kind: KindMalformed, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	if !env.Success {
		msg := strings.TrimSpace(env.Message)
		if msg == "" {
			msg = "request was not successful"
		}
		return nil, &APIError{Kind: KindHTTP, Status: resp.StatusCode, Message: msg}
	}
	return env.Data, nil
}

// httpError extracts the server's message from an error body, falling back
// to the bare status.
func httpError(status int, body []byte) *APIError {
	var parsed struct {
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &parsed) == nil {
		msg = strings.TrimSpace(parsed.Message)
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP status %d", status)
	}
	return &APIError{Kind: KindHTTP, Status: status, Message: msg}
}

// decode unmarshals a data payload, reporting shape mismatches as
// malformed responses.
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &APIError{Kind: KindMalformed, Message: "malformed response", Err: err}
	}
	return nil
}
