// Package apiclient is the authenticated HTTP client for the QuestPath API.
// It attaches the stored bearer token, recovers from an expired token with a
// single refresh-and-retry, and reports other failures to a Notifier.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/jrsteele09/go-questpath-client/token/refresh"
)

const (
	defaultRefreshPath = "/auth/refresh"
	defaultUserAgent   = "questpath-cli"
	requestIDHeader    = "X-Request-ID"
	maxErrorBody       = 1 << 20
)

type Client struct {
	baseURL     string
	http        *http.Client
	jar         http.CookieJar
	tokens      token.Repo
	coordinator *refresh.Coordinator
	notifier    Notifier
	refreshPath string
	userAgent   string
	timeout     time.Duration
	coalesce    bool
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is kept unless
// WithCookieJar is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCookieJar sets the jar holding the backend's refresh cookie.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithNotifier sets where user-facing error messages go.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithCoalescedRefresh makes concurrent 401s share one refresh call.
func WithCoalescedRefresh(enabled bool) Option {
	return func(c *Client) {
		c.coalesce = enabled
	}
}

func WithRefreshPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.refreshPath = path
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds each HTTP exchange. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for the API rooted at baseURL (e.g. "https://questpath.app/api").
func New(baseURL string, tokens token.Repo, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.ErrMissingBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, errors.ErrMissingBaseURL)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokens:      tokens,
		notifier:    LogNotifier{},
		refreshPath: defaultRefreshPath,
		userAgent:   defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := &http.Client{}
	if c.http != nil {
		copied := *c.http
		hc = &copied
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	switch {
	case c.jar != nil:
		hc.Jar = c.jar
	case hc.Jar == nil:
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	c.http = hc

	var refreshOpts []refresh.Option
	if c.coalesce {
		refreshOpts = append(refreshOpts, refresh.WithCoalescing())
	}
	c.coordinator = refresh.NewCoordinator(tokens, c.refreshToken, refreshOpts...)
	return c, nil
}

// Tokens returns the token store the client reads from.
func (c *Client) Tokens() token.Repo {
	return c.tokens
}

// RefreshCalls reports how many refresh calls the client has made.
func (c *Client) RefreshCalls() int64 {
	return c.coordinator.Calls()
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST with body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Patch issues a PATCH with body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, out, opts...)
}
