// Package remote talks to the REST items collection. It is a transport
// primitive: it never touches list state, and every failure comes back as
// an *Error carrying a message fit for the user.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/idilsaglam/grocery/internal/model"
)

// DefaultEndpoint is where the backend lives unless configured otherwise.
const DefaultEndpoint = "http://localhost:3500/items"

// Options describes one request: the method and an optional JSON body.
type Options struct {
	Method string // defaults to GET
	Body   any
}

// Client issues requests against a single collection endpoint.
type Client struct {
	endpoint *url.URL
	http     *http.Client
	log      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the collection at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q: missing host", endpoint)
	}
	c := &Client{
		endpoint: u,
		http:     &http.Client{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the collection URL.
func (c *Client) Endpoint() string { return c.endpoint.String() }

// ItemURL returns endpoint/{id}.
func (c *Client) ItemURL(id int) string {
	return c.endpoint.JoinPath(strconv.Itoa(id)).String()
}

// Request performs one call. A nil return means a 2xx response; anything
// else is an *Error whose Error() is the message to show.
func (c *Client) Request(ctx context.Context, rawURL string, opts Options) error {
	return c.do(ctx, rawURL, opts, nil)
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, c.Endpoint(), Options{Method: http.MethodGet}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Create posts a new item to the collection.
func (c *Client) Create(ctx context.Context, it model.Item) error {
	return c.Request(ctx, c.Endpoint(), Options{Method: http.MethodPost, Body: it})
}

type checkedPatch struct {
	Checked bool `json:"checked"`
}

// SetChecked patches only the checked flag of one item.
func (c *Client) SetChecked(ctx context.Context, id int, checked bool) error {
	return c.Request(ctx, c.ItemURL(id), Options{Method: http.MethodPatch, Body: checkedPatch{Checked: checked}})
}

// Delete removes one item.
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.Request(ctx, c.ItemURL(id), Options{Method: http.MethodDelete})
}

func (c *Client) do(ctx context.Context, rawURL string, opts Options, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	fail := func(kind Kind, status int, msg string, err error) error {
		requestsTotal.WithLabelValues(method, kind.String()).Inc()
		c.log.Debug("request failed", "method", method, "url", rawURL, "kind", kind.String(), "status", status, "err", err)
		return &Error{Kind: kind, Method: method, URL: rawURL, Status: status, Message: msg, Err: err}
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fail(KindEncode, 0, "Could not encode request: "+err.Error(), err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fail(KindTransport, 0, err.Error(), err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		return fail(KindTransport, 0, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fail(KindServer, resp.StatusCode, MsgUnexpectedData, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fail(KindDecode, resp.StatusCode, "Malformed response: "+err.Error(), err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	requestsTotal.WithLabelValues(method, "ok").Inc()
	c.log.Debug("request done", "method", method, "url", rawURL, "status", resp.StatusCode, "duration", time.Since(start))
	return nil
}
