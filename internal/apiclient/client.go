package apiclient

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

	"storefront/console/internal/logx"
)

type Config struct {
	APIURL  string
	Timeout time.Duration
}

// Credentials supplies the bearer token for outgoing requests and is told
// when the backend rejects that token.
type Credentials interface {
	Token() string
	Expire(ctx context.Context)
}

// Client sends requests to the storefront backend. A Client built by
// NewClient is anonymous; WithCredentials derives one that authenticates.
type Client struct {
	client *http.Client
	config Config
	base   http.RoundTripper
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return newClient(cfg, base, nil)
}

func newClient(cfg Config, base http.RoundTripper, creds Credentials) *Client {
	return &Client{
		client: &http.Client{
			Transport: &AuthTransport{
				Credentials: creds,
				Base:        base,
			},
			Timeout: cfg.Timeout,
		},
		config: cfg,
		base:   base,
	}
}

// WithCredentials returns a client that shares the connection pool but
// attaches the given credentials to every request.
func (c *Client) WithCredentials(creds Credentials) *Client {
	return newClient(c.config, c.base, creds)
}

func (c *Client) BaseURL() string {
	return c.config.APIURL
}

// JSON sends in (when non-nil) as a JSON body and decodes the response into out.
func (c *Client) JSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.Do(ctx, method, path, body, contentType, out)
}

// Multipart sends form as multipart/form-data and decodes the response into out.
func (c *Client) Multipart(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return c.Do(ctx, method, path, body, contentType, out)
}

func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	url := c.config.APIURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	logx.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("api request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil && !*env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}
	return nil
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
