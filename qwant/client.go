package qwant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.qwant.com"
	defaultUA      = "qwant-go/0.1 (+github.com/raezil/qwant-go)"
	defaultTimeout = 30 * time.Second
)

// Client is a minimal HTTP client for the Qwant search API.
// A Client is safe for concurrent use if its http.Client is.
type Client struct {
	appID   string
	baseURL string
	ua      string
	http    *http.Client
	timeout time.Duration
	logger  *logrus.Logger
	limiter *rate.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (useful for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom http.Client (e.g., with proxy or custom transport).
// WithTimeout has no effect on a client supplied this way.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.ua = ua }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger enables debug logging of requests. Without it the client is silent.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit throttles outgoing requests to perSecond with the given burst.
// Calls wait for a token; they are never retried.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient constructs a Client for the given application id (the "t" parameter).
func NewClient(appID string, opts ...Option) *Client {
	c := &Client{
		appID:   appID,
		baseURL: defaultBaseURL,
		ua:      defaultUA,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetOutput(io.Discard)
	}
	return c
}

// Page is a decoded response together with the request that produced it.
type Page struct {
	Envelope
	// URL is the exact request URL.
	URL string `json:"-"`
	// Offset is the offset that was requested, zero for a first page.
	Offset int `json:"-"`
	// Raw is the exact JSON returned by the API.
	Raw json.RawMessage `json:"-"`
}

// DecodeInto unmarshals the raw response into v.
func (p *Page) DecodeInto(v any) error {
	return json.Unmarshal(p.Raw, v)
}

// HasMore reports whether requesting the next page is worthwhile.
func (p *Page) HasMore() bool {
	return p != nil && !p.IsLast() && len(p.Items()) > 0
}

// Search runs a query and returns the first page of results.
//
// A nil error only means the envelope was fetched and decoded; check
// Envelope.Err for failures reported by the API itself.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	u, err := BuildURL(c.baseURL, c.appID, req, 0)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, u, 0)
}

// NextPage requests the page following prev. It advances prev.Offset by
// PageSize and returns a new Page; prev is left untouched and items are not
// accumulated.
func (c *Client) NextPage(ctx context.Context, prev *Page) (*Page, error) {
	if prev == nil || prev.URL == "" {
		return nil, &InvalidArgumentError{Field: "page", Reason: "no originating request"}
	}
	offset := prev.Offset + PageSize
	u, err := withOffset(prev.URL, offset)
	if err != nil {
		return nil, &InvalidArgumentError{Field: "page", Reason: err.Error()}
	}
	return c.fetch(ctx, u, offset)
}

func (c *Client) fetch(ctx context.Context, u string, offset int) (*Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{URL: u, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.ua)

	c.logger.WithFields(logrus.Fields{
		"url":    u,
		"offset": offset,
	}).Debug("Making Qwant API request")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close response body")
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		c.logger.WithFields(logrus.Fields{
			"status_code": res.StatusCode,
			"url":         u,
		}).Debug("Qwant API request failed")
		return nil, &TransportError{
			URL:        u,
			StatusCode: res.StatusCode,
			Body:       b,
			Err:        fmt.Errorf("unexpected status %s", res.Status),
		}
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{URL: u, Err: fmt.Errorf("read body: %w", err)}
	}
	env, err := Decode(b)
	if err != nil {
		return nil, &DecodeError{URL: u, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"status":        env.Status,
		"items":         len(env.Items()),
		"response_size": len(b),
	}).Debug("Qwant API request successful")

	return &Page{Envelope: env, URL: u, Offset: offset, Raw: append([]byte(nil), b...)}, nil
}

// Decode parses a response body into an Envelope. Unknown fields are
// ignored; a missing status or result is an error.
func Decode(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(bytes.TrimSpace(b), &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
