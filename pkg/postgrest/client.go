// Package postgrest is a small client for a hosted Supabase project: the
// PostgREST row API under /rest/v1 and the GoTrue auth API under /auth/v1.
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// Config holds the project connection details.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client talks to one hosted project. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// New creates a Client. A client built from an empty Config is valid but every call fails with ErrNotConfigured.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
	}
}

// Configured reports whether the client has a project URL and key.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	bearer  string
	headers map[string]string
}

// do performs r and returns the raw response body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var agent *fiber.Agent
	switch r.method {
	case fiber.MethodGet:
		agent = fiber.Get(target)
	case fiber.MethodPost:
		agent = fiber.Post(target)
	case fiber.MethodPatch:
		agent = fiber.Patch(target)
	case fiber.MethodDelete:
		agent = fiber.Delete(target)
	default:
		return nil, fmt.Errorf("postgrest: unsupported method %s", r.method)
	}

	bearer := r.bearer
	if bearer == "" {
		bearer = c.apiKey
	}
	agent.Set("apikey", c.apiKey)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	for k, v := range r.headers {
		agent.Set(k, v)
	}
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("postgrest: encode body: %w", err)
		}
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(payload)
	}
	agent.Timeout(c.timeoutFor(ctx))

	status, body, errs := agent.Bytes()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, r.method, r.path, errors.Join(errs...))
	}
	if status < 200 || status >= 300 {
		return nil, decodeError(status, body)
	}
	return body, nil
}

func (c *Client) timeoutFor(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < c.timeout {
			if left <= 0 {
				return time.Millisecond
			}
			return left
		}
	}
	return c.timeout
}

var returnRepresentation = map[string]string{"Prefer": "return=representation"}

func tablePath(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}

// Select reads the rows of table matching q into dest, which must point to a slice.
func (c *Client) Select(ctx context.Context, table string, q Query, dest any) error {
	vals := q.Values()
	vals.Set("select", "*")
	body, err := c.do(ctx, request{method: fiber.MethodGet, path: tablePath(table), query: vals})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("postgrest: decode %s rows: %w", table, err)
	}
	return nil
}

// Insert writes one row and decodes the stored representation into dest.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	body, err := c.do(ctx, request{
		method:  fiber.MethodPost,
		path:    tablePath(table),
		body:    row,
		headers: returnRepresentation,
	})
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("postgrest: decode inserted %s row: %w", table, err)
	}
	if len(rows) == 0 {
		return &Error{Status: 200, Code: "PGRST116", Message: "insert returned no rows"}
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(rows[0], dest)
}

// Update applies values to every row matching filters and decodes the updated rows into dest (a slice pointer).
func (c *Client) Update(ctx context.Context, table string, filters []Filter, values map[string]any, dest any) error {
	body, err := c.do(ctx, request{
		method:  fiber.MethodPatch,
		path:    tablePath(table),
		query:   filterValues(filters),
		body:    values,
		headers: returnRepresentation,
	})
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("postgrest: decode updated %s rows: %w", table, err)
	}
	return nil
}

// Delete removes every row matching filters and reports how many were removed.
func (c *Client) Delete(ctx context.Context, table string, filters []Filter) (int, error) {
	body, err := c.do(ctx, request{
		method:  fiber.MethodDelete,
		path:    tablePath(table),
		query:   filterValues(filters),
		headers: returnRepresentation,
	})
	if err != nil {
		return 0, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("postgrest: decode deleted %s rows: %w", table, err)
	}
	return len(rows), nil
}
