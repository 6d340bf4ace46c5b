package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/Bahjat/site-scorecard/internal/document"
	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/performance"
	"github.com/Bahjat/site-scorecard/internal/platform/errs"
	"github.com/Bahjat/site-scorecard/internal/quality"
	"github.com/Bahjat/site-scorecard/internal/scoring"
	"github.com/Bahjat/site-scorecard/internal/security"
)

const invalidURLMessage = "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com)."

// auxiliaryFetcher defines how the engine retrieves robots.txt, sitemap.xml
// and llms.txt.
type auxiliaryFetcher interface {
	FetchAll(ctx context.Context, pageURL *url.URL) AuxiliaryFiles
}

// Engine orchestrates page fetching, auxiliary file checks and scoring.
type Engine struct {
	fetcher   Fetcher
	auxiliary auxiliaryFetcher
	now       func() time.Time
}

// NewEngine returns an Engine backed by the given Fetcher and auxiliary
// file fetcher.
func NewEngine(fetcher Fetcher, aux auxiliaryFetcher) *Engine {
	return &Engine{
		fetcher:   fetcher,
		auxiliary: aux,
		now:       time.Now,
	}
}

// ValidateURL parses targetURL and accepts only absolute http(s) URLs.
func ValidateURL(targetURL string) (*url.URL, error) {
	if targetURL == "" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: "URL is required."}
	}
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage, Cause: err}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: "Only http and https URLs are supported."}
	}
	return parsed, nil
}

// Analyze fetches a URL and its auxiliary files, then scores the page.
func (e *Engine) Analyze(ctx context.Context, targetURL string) (*model.AnalysisResult, error) {
	parsed, err := ValidateURL(targetURL)
	if err != nil {
		return nil, err
	}

	page, err := e.fetcher.Fetch(ctx, targetURL)
	if err != nil {
		return nil, fetchError(err)
	}

	if page.StatusCode >= 500 {
		return nil, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: page.StatusCode,
			Message:        "The provided URL returned a server error.",
		}
	}

	aux := e.auxiliary.FetchAll(ctx, parsed)

	return e.score(targetURL, page, aux)
}

// score runs the three analyzers over the same immutable inputs. A panic
// inside a rule is reported as an internal error instead of crashing.
func (e *Engine) score(targetURL string, page *Page, aux AuxiliaryFiles) (result *model.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &errs.AppError{
				Kind:    errs.Internal,
				Message: "Analysis failed unexpectedly.",
				Cause:   fmt.Errorf("panic: %v", r),
			}
		}
	}()

	doc := document.Parse(page.Body)
	loadMs := float64(page.Elapsed.Milliseconds())

	websiteQuality := quality.Analyze(quality.Input{
		URL:       targetURL,
		Doc:       doc,
		Headers:   page.Header,
		RobotsTxt: aux.RobotsTxt,
		Sitemap:   aux.Sitemap,
		LLMsTxt:   aux.LLMsTxt,
	})
	trustSecurity := security.Analyze(security.Input{
		URL:     targetURL,
		HTML:    page.Body,
		Headers: page.Header,
	})
	pageSpeed := performance.Analyze(performance.Input{
		URL:        targetURL,
		Doc:        doc,
		Headers:    page.Header,
		LoadTimeMs: loadMs,
	})

	return &model.AnalysisResult{
		URL:          targetURL,
		AnalyzedAt:   e.now().UTC(),
		LoadTime:     FormatLoadTime(page.Elapsed),
		OverallScore: scoring.Overall(websiteQuality.Score, trustSecurity.Score, pageSpeed.Score),
		Sections: model.Sections{
			WebsiteQuality: websiteQuality,
			TrustSecurity:  trustSecurity,
			PageSpeed:      pageSpeed,
		},
	}, nil
}

// FormatLoadTime renders a duration as seconds with two decimals.
func FormatLoadTime(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func fetchError(err error) error {
	if errors.Is(err, errBlockedAddress) {
		return &errs.AppError{
			Kind:    errs.Unreachable,
			Message: "The provided URL points to a private or reserved network address.",
			Cause:   err,
		}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "The provided URL took too long to respond.",
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:    errs.Unreachable,
		Message: "The provided URL could not be reached. Check the address.",
		Cause:   err,
	}
}
