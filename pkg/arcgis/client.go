// Package arcgis provides a minimal client for ArcGIS feature-service
// query endpoints (attribute and spatial filters over GET).
package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 8 * time.Second
	defaultConnectTimeout = 5 * time.Second
	defaultUserAgent      = "nsw-addr-lookup-go/1.0"

	// maxSnippetLen bounds the diagnostic body captured from error responses.
	maxSnippetLen = 256
)

// Client issues feature-service queries. Implementations are safe for
// concurrent use and hold no per-request state.
type Client interface {
	// Query performs a single GET against the endpoint with the given
	// parameters and parses the body as a feature collection. Failures
	// are reported as *QueryError; there are no retries.
	Query(ctx context.Context, endpoint string, params []Param) (*FeatureCollection, error)
}

// Param is one query-string parameter. Parameters are encoded in the
// order given, with keys and values percent-encoded individually.
type Param struct {
	Key   string
	Value string
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client, replacing the default
// timeout and transport configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every query.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		c.userAgent = ua
	}
}

// WithTimeouts replaces the default total and connect timeouts on the
// built-in HTTP client.
func WithTimeouts(total, connect time.Duration) Option {
	return func(c *client) {
		c.httpClient = newHTTPClient(total, connect)
	}
}

// WithRateLimit sets a requests-per-second politeness limit across all
// queries made through this client.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a query client. The default HTTP client enforces a
// 5 second connect timeout and an 8 second total request timeout, and is
// intended to be shared for the life of the process.
func NewClient(opts ...Option) Client {
	c := &client{
		httpClient: newHTTPClient(defaultTimeout, defaultConnectTimeout),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(total, connect time.Duration) *http.Client {
	return &http.Client{
		Timeout: total,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: connect,
			}).DialContext,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func (c *client) Query(ctx context.Context, endpoint string, params []Param) (*FeatureCollection, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "arcgis: rate limiter wait")
		}
	}

	reqURL := endpoint + "?" + encodeParams(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "arcgis: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &QueryError{
			Kind:    KindHTTPStatus,
			Status:  resp.StatusCode,
			Snippet: readSnippet(resp.Body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, &QueryError{Kind: KindParse, Err: err}
	}

	return &fc, nil
}

// classifyTransport maps a request or body-read failure to a QueryError,
// distinguishing deadline overruns from other connection faults.
func classifyTransport(err error) *QueryError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &QueryError{Kind: KindTimeout, Err: err}
	}
	return &QueryError{Kind: KindTransport, Err: err}
}

// readSnippet captures at most maxSnippetLen bytes of an error response
// body, marking truncation with a trailing ellipsis.
func readSnippet(r io.Reader) string {
	buf, err := io.ReadAll(io.LimitReader(r, maxSnippetLen+1))
	if err != nil {
		return ""
	}
	if len(buf) > maxSnippetLen {
		return string(buf[:maxSnippetLen]) + "..."
	}
	return string(buf)
}

// encodeParams builds the query string preserving parameter order.
// Reserved characters inside values, including & and =, are escaped.
func encodeParams(params []Param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}
