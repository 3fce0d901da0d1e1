package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

const userAgent = "QKart-TUI/1.0"

// Options configures a Client. The zero value is usable.
type Options struct {
	// Timeout bounds a whole request. Zero means no timeout: a dispatched
	// lookup is awaited until the service answers or the connection fails.
	Timeout time.Duration

	// SearchRate and SearchBurst pace outbound search requests.
	// A zero SearchRate disables pacing.
	SearchRate  rate.Limit
	SearchBurst int
}

// Client talks to the catalog service.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a client for the service rooted at endpoint,
// e.g. "http://localhost:8082/api/v1".
func NewClient(endpoint string, opts Options) *Client {
	limit, burst := opts.SearchRate, opts.SearchBurst
	if limit == 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: opts.Timeout},
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Endpoint returns the service root the client was built with.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchAll loads the full catalog. Any failure is returned as *FetchError.
func (c *Client) FetchAll(ctx context.Context) ([]Item, error) {
	status, body, err := c.get(ctx, c.endpoint+"/products")
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	if status != http.StatusOK {
		return nil, &FetchError{
			Status:  status,
			Message: errorMessage(body),
			Err:     fmt.Errorf("unexpected status %d", status),
		}
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, &FetchError{Status: status, Err: err}
	}
	return items, nil
}

// Search queries the catalog for text. The query is sent verbatim, including
// the empty string; the service decides what an empty query matches.
//
// A 404 answer yields ErrNotFound. Every other failure is a *SearchError.
func (c *Client) Search(ctx context.Context, text string) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &SearchError{Query: text, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	u := c.endpoint + "/products/search?" + url.Values{"value": {text}}.Encode()
	status, body, err := c.get(ctx, u)
	if err != nil {
		return nil, &SearchError{Query: text, Err: err}
	}

	switch {
	case status == http.StatusNotFound:
		return nil, ErrNotFound
	case status < 200 || status > 299:
		return nil, &SearchError{
			Query:  text,
			Status: status,
			Err:    fmt.Errorf("unexpected status %d", status),
		}
	}

	items, err := decodeItems(body)
	if err != nil {
		return nil, &SearchError{Query: text, Status: status, Err: err}
	}
	return items, nil
}

// get performs a GET and returns the status and the (bounded) body.
func (c *Client) get(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decodeItems(body []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if err := Validate(items); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// errorMessage pulls the "message" field out of an error body such as
// {"success": false, "message": "..."}. Non-JSON bodies yield "".
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return strings.TrimSpace(gjson.GetBytes(body, "message").String())
}
