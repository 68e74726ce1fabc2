// Package fetch retrieves corpus pages for the debug heading column of the
// redirect table. Requests are rate limited, carry a stable User-Agent, and
// results are cached per URL for the duration of a run.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/core/xml"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/cache"
)

// DefaultUserAgent is sent with requests unless overridden.
const DefaultUserAgent = "abacus-redirects/0.3.0"

// DefaultRequestInterval is the minimum interval between requests to the
// corpus host.
const DefaultRequestInterval = 250 * time.Millisecond

// DefaultCacheTTL is the per-URL lifetime of cached fetch results.
const DefaultCacheTTL = 5 * time.Minute

// DefaultTimeout bounds a single request when no HTTP client is injected.
const DefaultTimeout = 15 * time.Second

// HTTPClient is an interface matching the Do method of *http.Client, so
// tests can inject fakes and callers can supply custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RateLimitedClient wraps an HTTPClient and enforces a minimum interval
// between requests. The first request goes out immediately.
type RateLimitedClient struct {
	underlying HTTPClient
	interval   time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewRateLimitedClient creates a rate-limited client with the given minimum
// request interval.
func NewRateLimitedClient(underlying HTTPClient, interval time.Duration) *RateLimitedClient {
	return &RateLimitedClient{
		underlying: underlying,
		interval:   interval,
	}
}

// Do executes a request, sleeping first if the previous request was less
// than the configured interval ago.
func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	if !c.last.IsZero() {
		if wait := c.interval - time.Since(c.last); wait > 0 {
			c.mu.Unlock()
			time.Sleep(wait)
			c.mu.Lock()
		}
	}
	c.last = time.Now()
	c.mu.Unlock()

	return c.underlying.Do(req)
}

// Options configure a Client. The zero value gives a client with library
// defaults and no rate limiting.
type Options struct {
	// HTTPClient is the underlying client. Nil means a plain http.Client
	// with Timeout applied.
	HTTPClient HTTPClient
	// Timeout bounds a single request of the built-in client.
	Timeout time.Duration
	// RequestInterval is the minimum interval between requests. Zero or
	// negative disables the wait.
	RequestInterval time.Duration
	// CacheTTL is the per-URL result lifetime.
	CacheTTL time.Duration
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
}

// result is one cached fetch outcome. Failures are cached too, so repeated
// diagnostics against a dead URL do not re-fetch.
type result struct {
	heading string
	err     error
}

// Client fetches page headings.
type Client struct {
	httpClient HTTPClient
	cache      *cache.TTLCache[string, result]
	userAgent  string
}

// New creates a Client from options.
func New(opts Options) *Client {
	underlying := opts.HTTPClient
	if underlying == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		underlying = &http.Client{Timeout: timeout}
	}
	if opts.RequestInterval > 0 {
		underlying = NewRateLimitedClient(underlying, opts.RequestInterval)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: underlying,
		cache:      cache.New[string, result](ttl),
		userAgent:  userAgent,
	}
}

// Heading fetches a page and returns its heading text: the first h1 in
// document order, falling back to the first head element for TEI fragments.
// A transport error, an error status, or a page without a heading report an
// error. Single attempt, no retries; outcomes are cached per URL.
func (c *Client) Heading(url string) (string, error) {
	if cached, ok := c.cache.Get(url); ok {
		return cached.heading, cached.err
	}

	heading, err := c.fetch(url)
	c.cache.Set(url, result{heading: heading, err: err})
	return heading, err
}

func (c *Client) fetch(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return ExtractHeading(body)
}

// ExtractHeading pulls the heading text out of a fetched page body.
func ExtractHeading(data []byte) (string, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return "", err
	}

	for _, name := range []string{"h1", "head"} {
		node, err := doc.XPathFirst(xml.Path(name))
		if err != nil {
			return "", err
		}
		if node != nil {
			return node.CollapsedText(), nil
		}
	}
	return "", errors.NewNotFound("heading", "")
}
