// Package client talks to the automata backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ha1tch/fsm-canvas/pkg/codec"
	"github.com/ha1tch/fsm-canvas/pkg/fsm"
)

// DefaultTimeout bounds every request when no *http.Client is supplied.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNetwork is returned when the backend cannot be reached or answers
	// with something that is not a structured reply.
	ErrNetwork = errors.New("backend unreachable")

	// ErrRejected is matched by every *RejectedError.
	ErrRejected = errors.New("operation rejected")
)

// RejectedError is a structured failure reported by the backend.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("operation rejected (%d): %s", e.Status, e.Detail)
}

// Is reports whether target is ErrRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// Client calls the backend routes. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns every stored automaton keyed by id.
func (c *Client) List(ctx context.Context) (map[int]codec.Document, error) {
	var raw map[string]codec.Document
	if err := c.do(ctx, http.MethodGet, "/automaton/", nil, &raw); err != nil {
		return nil, err
	}
	out := make(map[int]codec.Document, len(raw))
	for k, doc := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: bad automaton id %q in listing", ErrNetwork, k)
		}
		doc.Normalize()
		out[id] = doc
	}
	return out, nil
}

// Create stores doc on the backend and returns its id.
func (c *Client) Create(ctx context.Context, doc codec.Document) (int, error) {
	body, err := codec.ToJSON(doc, false)
	if err != nil {
		return 0, fmt.Errorf("failed to encode document: %w", err)
	}
	var resp struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/automaton/", body, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Read fetches the automaton stored under id.
func (c *Client) Read(ctx context.Context, id int) (codec.Document, error) {
	return c.document(ctx, http.MethodGet, path(id, ""))
}

// Recognize reports whether the automaton accepts input.
func (c *Client) Recognize(ctx context.Context, id int, input string) (bool, error) {
	var resp struct {
		Recognized bool `json:"recognized"`
	}
	target := path(id, "/recognize") + "?input=" + url.QueryEscape(input)
	if err := c.do(ctx, http.MethodPost, target, nil, &resp); err != nil {
		return false, err
	}
	return resp.Recognized, nil
}

// Convert asks the backend for the DFA equivalent to id and returns the id
// it was stored under.
func (c *Client) Convert(ctx context.Context, id int) (int, error) {
	var resp struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, path(id, "/to_dfa"), nil, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Minimize returns the minimal DFA for id.
func (c *Client) Minimize(ctx context.Context, id int) (codec.Document, error) {
	return c.document(ctx, http.MethodGet, path(id, "/minimize"))
}

// Type returns whether id is deterministic.
func (c *Client) Type(ctx context.Context, id int) (fsm.Type, error) {
	var resp struct {
		Type fsm.Type `json:"type"`
	}
	if err := c.do(ctx, http.MethodGet, path(id, "/type"), nil, &resp); err != nil {
		return "", err
	}
	return resp.Type, nil
}

// Equivalent reports whether a and b accept the same language.
func (c *Client) Equivalent(ctx context.Context, a, b int) (bool, error) {
	var resp struct {
		Equivalent bool `json:"equivalent"`
	}
	target := path(a, "/equivalence/"+strconv.Itoa(b))
	if err := c.do(ctx, http.MethodPost, target, nil, &resp); err != nil {
		return false, err
	}
	return resp.Equivalent, nil
}

func path(id int, suffix string) string {
	return "/automaton/" + strconv.Itoa(id) + suffix
}

func (c *Client) document(ctx context.Context, method, target string) (codec.Document, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, target, nil, &raw); err != nil {
		return codec.Document{}, err
	}
	doc, warns, err := codec.ParseJSON(raw)
	if err != nil {
		return codec.Document{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	for _, w := range warns {
		c.log.Warn("backend document", "target", target, "warning", w.Msg)
	}
	return doc, nil
}

// do sends one request and decodes a 2xx body into out. A non-2xx reply
// with a {"detail": ...} body becomes a *RejectedError.
func (c *Client) do(ctx context.Context, method, target string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed", "method", method, "target", target, "request_id", reqID, "error", err)
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	c.log.Debug("backend request",
		"method", method,
		"target", target,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", reqID,
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Detail *string `json:"detail"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Detail != nil {
			return &RejectedError{Status: resp.StatusCode, Detail: *failure.Detail}
		}
		return fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrNetwork, err)
	}
	return nil
}
