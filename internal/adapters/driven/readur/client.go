package readur

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/docsearch/internal/core/domain"
	"github.com/custodia-labs/docsearch/internal/core/ports/driven"
	"github.com/custodia-labs/docsearch/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	pathSearch         = "api/search"
	pathSearchEnhanced = "api/search/enhanced"
	pathFacets         = "api/search/facets"
)

// Ensure Client implements the interface.
var _ driven.SearchClient = (*Client)(nil)

// Config configures a Client.
type Config struct {
	// BaseURL is the server root. A path prefix is preserved.
	BaseURL string

	// Token is the bearer credential. Empty sends no Authorization header.
	Token string

	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// RequestsPerSecond throttles requests. Zero disables throttling.
	RequestsPerSecond float64

	// Clock drives the rate limiter back-off. Defaults to the wall clock.
	Clock clock.Clock
}

// ConfigFromSettings builds a client configuration from server settings.
func ConfigFromSettings(s domain.ServerSettings) Config {
	return Config{
		BaseURL:           s.BaseURL,
		Token:             s.Token,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// Client talks to a Readur server.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	rateLimiter *RateLimiter
	log         *logger.Logger
}

// NewClient creates a client. It returns domain.ErrNoServer when no base URL
// is configured.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, domain.ErrNoServer
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: server url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout

	return &Client{
		baseURL:     base,
		http:        hc,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Clock),
		log:         logger.Named("readur"),
	}, nil
}

// Search runs the request against the plain or enhanced endpoint.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error) {
	params, err := query.Values(newSearchParams(req))
	if err != nil {
		return nil, fmt.Errorf("encode search params: %w", err)
	}

	path := pathSearch
	if req.Enhanced {
		path = pathSearchEnhanced
	}

	var body searchResponse
	if err := c.getJSON(ctx, path, params, &body); err != nil {
		return nil, err
	}
	return body.toPage()
}

// Facets returns the available MIME types and tags with counts.
func (c *Client) Facets(ctx context.Context) (*domain.Facets, error) {
	var body facetsResponse
	if err := c.getJSON(ctx, pathFacets, nil, &body); err != nil {
		return nil, err
	}
	return body.toDomain(), nil
}

// Download opens the byte stream of a document.
func (c *Client) Download(ctx context.Context, documentID string) (*driven.Download, error) {
	resp, err := c.get(ctx, "api/documents/"+url.PathEscape(documentID)+"/download", nil, "*/*")
	if err != nil {
		return nil, err
	}

	return &driven.Download{
		Body:        resp.Body,
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// DocumentURL returns the server's detail page for a document.
func (c *Client) DocumentURL(documentID string) string {
	return c.baseURL.JoinPath("documents", documentID).String()
}

// getJSON sends a GET and decodes a successful JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	resp, err := c.get(ctx, path, params, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

// get sends a throttled GET. On success the caller owns the response body.
func (c *Client) get(ctx context.Context, path string, params url.Values, accept string) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL.JoinPath(path)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteSearch, err)
	}
	c.log.Debug("GET %s -> %d (%s)", u.Redacted(), resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}
	return resp, nil
}

// dispositionFilename extracts the filename parameter of a
// Content-Disposition header.
func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
