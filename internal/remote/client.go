// Package remote issues the HTTP calls behind every domain container.
// One attempt per call: no retry, no backoff, no client-side timeout beyond
// whatever the supplied http.Client carries.
package remote

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
	"github.com/rs/zerolog"

	"github.com/hackgods/healthcare-marketplace/internal/session"
)

// Role picks which bearer token a call carries.
type Role int

const (
	Public Role = iota
	Patient
	Doctor
)

func (r Role) String() string {
	switch r {
	case Patient:
		return "patient"
	case Doctor:
		return "doctor"
	default:
		return "public"
	}
}

// TokenSource yields the bearer token for a role, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context, role Role) (string, error)
}

// SessionTokens reads tokens from session storage. Patient and doctor tokens
// live under different keys and are never swapped.
type SessionTokens struct {
	Storage session.Storage
}

func (s SessionTokens) Token(ctx context.Context, role Role) (string, error) {
	var key string
	switch role {
	case Patient:
		key = session.KeyUserToken
	case Doctor:
		key = session.KeyDoctorToken
	default:
		return "", nil
	}
	tok, err := s.Storage.Get(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return tok, nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     zerolog.Logger
	metrics    *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTokens(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New builds a client for the backend at baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     SessionTokens{Storage: session.NewMemory()},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call describes one backend interaction. Everything but the body is fixed
// at design time by the resource client that builds it.
type call struct {
	resource string
	method   string
	path     string
	role     Role
	body     any
	form     *multipartBody
	fallback string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	status, err := c.send(ctx, cl, out)
	c.metrics.Observe(cl.resource, cl.method, status, time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("method", cl.method).
			Str("path", cl.path).
			Int("status", status).
			Msg("backend call failed")
		return err
	}

	c.logger.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("backend call")
	return nil
}

func (c *Client) send(ctx context.Context, cl call, out any) (int, error) {
	token, err := c.tokens.Token(ctx, cl.role)
	if err != nil {
		return 0, &Error{Op: cl.fallback, Message: cl.fallback, Err: err}
	}
	if cl.role != Public && token == "" {
		return 0, &Error{Op: cl.fallback, Message: "Please login to continue", Err: ErrNotAuthenticated}
	}

	body, contentType, err := encodeBody(cl)
	if err != nil {
		return 0, &Error{Op: cl.fallback, Message: cl.fallback, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return 0, &Error{Op: cl.fallback, Message: cl.fallback, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &Error{Op: cl.fallback, Message: cl.fallback, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &Error{Op: cl.fallback, Status: resp.StatusCode, Message: cl.fallback, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &Error{
			Op:      cl.fallback,
			Status:  resp.StatusCode,
			Message: serverMessage(raw, cl.fallback),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, &Error{Op: cl.fallback, Status: resp.StatusCode, Message: cl.fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return resp.StatusCode, nil
}

func encodeBody(cl call) (io.Reader, string, error) {
	switch {
	case cl.form != nil:
		return cl.form.encode()
	case cl.body != nil:
		data, err := json.Marshal(cl.body)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	default:
		return nil, "", nil
	}
}

// serverMessage pulls the backend's human message out of an error body.
func serverMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Details != "":
		return body.Details
	case body.Error != "":
		return body.Error
	default:
		return fallback
	}
}
