package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 12 * time.Second

// TokenSource supplies the bearer credential. An empty token means the
// request goes out unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// Client talks to the CoreFit REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	timeout    time.Duration
	log        logrus.FieldLogger
}

type Option func(*Client)

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one call. Body may be a string, []byte, an io.Reader
// (sent as-is) or any value, which is JSON-encoded.
type Request struct {
	Method  string
	Path    string
	Body    any
	Header  http.Header
	Timeout time.Duration // zero means the client default
}

// Do performs req and decodes a successful JSON body into out (when out is
// not nil). 204 and empty bodies leave out untouched.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	url := c.baseURL + normalizePath(req.Path)

	header := req.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("Accept", "application/json")
	if header.Get("X-Request-ID") == "" {
		header.Set("X-Request-ID", uuid.NewString())
	}

	if c.tokens != nil && header.Get("Authorization") == "" {
		token, err := c.tokens.Token()
		if err != nil {
			c.log.WithError(err).Warn("api: reading credential")
		} else if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	body, isText, err := encodeBody(req.Body)
	if err != nil {
		return fmt.Errorf("api: encode body for %s: %w", req.Path, err)
	}
	if isText && header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(callCtx, method, url, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	httpReq.Header = header

	// The deadline covers the body too, so both failure points classify the
	// same way.
	transportError := func(msg string, err error) error {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return &Error{
				Kind:    KindTimeout,
				Status:  http.StatusRequestTimeout,
				URL:     url,
				Message: fmt.Sprintf("timeout (%dms) %s", timeout.Milliseconds(), msg),
				Err:     err,
			}
		}
		return &Error{Kind: KindNetwork, Status: 0, URL: url, Message: "network failure " + msg, Err: err}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return transportError("reaching API", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       req.Path,
		"status":     resp.StatusCode,
		"latency":    time.Since(start).Round(time.Millisecond),
		"request_id": header.Get("X-Request-ID"),
	}).Debug("api: request")

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError("reading API response", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	trimmed := bytes.TrimSpace(raw)

	if !ok {
		parsed := parseBody(trimmed)
		return &Error{
			Kind:    KindHTTP,
			Status:  resp.StatusCode,
			URL:     url,
			Message: resolveMessage(parsed, resp.StatusCode),
			Body:    parsed,
		}
	}

	if len(trimmed) == 0 || out == nil {
		return nil
	}

	if !json.Valid(trimmed) {
		if s, isString := out.(*string); isString {
			*s = string(raw)
			return nil
		}
		return &Error{
			Kind:    KindMalformed,
			Status:  resp.StatusCode,
			URL:     url,
			Message: "response is not JSON",
			Body:    string(raw),
		}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &Error{
			Kind:    KindMalformed,
			Status:  resp.StatusCode,
			URL:     url,
			Message: fmt.Sprintf("decoding response: %v", err),
			Body:    string(raw),
			Err:     err,
		}
	}
	return nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// encodeBody returns the request body and whether it is textual JSON.
func encodeBody(v any) (io.Reader, bool, error) {
	switch b := v.(type) {
	case nil:
		return nil, false, nil
	case string:
		return strings.NewReader(b), true, nil
	case []byte:
		return bytes.NewReader(b), false, nil
	case io.Reader:
		return b, false, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, false, err
		}
		return bytes.NewReader(data), true, nil
	}
}

func parseBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
