package pageinsight

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxAuxiliaryBody = 1 << 20 // 1 MB

// AuxiliaryFiles holds the site-level files fetched next to the page.
// An empty string means the file is absent.
type AuxiliaryFiles struct {
	RobotsTxt string
	Sitemap   string
	LLMsTxt   string
}

// AuxiliaryClient fetches robots.txt, sitemap.xml and llms.txt. Every
// failure collapses to "absent"; it never returns an error.
type AuxiliaryClient struct {
	client  *http.Client
	timeout time.Duration
}

// NewAuxiliaryClient returns an AuxiliaryClient whose requests each time out
// after timeout and dial through d.
func NewAuxiliaryClient(timeout time.Duration, d *net.Dialer) *AuxiliaryClient {
	return newAuxiliaryClient(timeout, &http.Transport{
		DialContext:         d.DialContext,
		MaxConnsPerHost:     3,
		MaxIdleConnsPerHost: 3,
		IdleConnTimeout:     90 * time.Second,
	})
}

func newAuxiliaryClient(timeout time.Duration, transport http.RoundTripper) *AuxiliaryClient {
	return &AuxiliaryClient{
		timeout: timeout,
		client: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: safeRedirectPolicy,
		},
	}
}

// FetchAll requests the three files concurrently from the origin of
// pageURL and waits for all of them.
func (ac *AuxiliaryClient) FetchAll(ctx context.Context, pageURL *url.URL) AuxiliaryFiles {
	origin := &url.URL{Scheme: pageURL.Scheme, Host: pageURL.Host}

	var files AuxiliaryFiles
	targets := []struct {
		path string
		dst  *string
	}{
		{"/robots.txt", &files.RobotsTxt},
		{"/sitemap.xml", &files.Sitemap},
		{"/llms.txt", &files.LLMsTxt},
	}

	var g errgroup.Group
	for _, t := range targets {
		g.Go(func() error {
			*t.dst = ac.fetchText(ctx, origin.JoinPath(t.path).String())
			return nil
		})
	}
	_ = g.Wait()

	return files
}

// fetchText returns the body of a 200 response, or "" on any failure.
func (ac *AuxiliaryClient) fetchText(ctx context.Context, target string) string {
	ctx, cancel := context.WithTimeout(ctx, ac.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := ac.client.Do(req)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuxiliaryBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}
