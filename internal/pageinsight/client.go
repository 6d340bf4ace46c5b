package pageinsight

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

// Page is a fetched document with the response metadata the analyzers read.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       string
	Elapsed    time.Duration
}

// Fetcher defines how the engine retrieves the primary page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// HTTPClient implements Fetcher using a real HTTP client.
type HTTPClient struct {
	client *http.Client
}

const (
	maxRedirects    = 5
	maxResponseBody = 10 << 20 // 10 MB
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// NewHTTPClient returns a Fetcher backed by an http.Client with the given
// timeout, a transport dialing through d, and redirect validation that
// prevents SSRF via redirect chains.
func NewHTTPClient(timeout time.Duration, d *net.Dialer) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         d.DialContext,
				MaxConnsPerHost:     10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

// safeRedirectPolicy validates redirect targets and limits the redirect chain length.
func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch retrieves the page at the given URL, reads its body and measures
// the end-to-end load time.
func (c *HTTPClient) Fetch(ctx context.Context, targetURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Limit response body to prevent memory exhaustion from extremely
	// large or infinite responses.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	return &Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       decode(raw, resp.Header.Get("Content-Type")),
		Elapsed:    elapsed,
	}, nil
}

// decode converts the body to UTF-8 using the declared or sniffed charset.
func decode(raw []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return string(raw)
	}
	utf8, err := io.ReadAll(r)
	if err != nil {
		return string(raw)
	}
	return string(utf8)
}
