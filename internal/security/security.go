// Package security scores response headers, hosting infrastructure and
// on-page trust signals.
package security

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

// Input is everything the security analyzer reads.
type Input struct {
	URL     string
	HTML    string
	Headers http.Header
}

// Analyze evaluates every security category and returns the flat-scored
// report. Informational zero-point checks do not affect the score.
func Analyze(in Input) model.AnalyzerReport {
	return scoring.Flat(
		scoring.Evaluate("securityHeaders", "Security Headers", headerRules(in)),
		scoring.Evaluate("domainTrust", "Domain Trust", domainRules(in)),
		scoring.Evaluate("infrastructure", "Infrastructure", infrastructureRules(in)),
		scoring.Evaluate("trustIndicators", "Trust Indicators", trustRules(in)),
	)
}

func headerRules(in Input) []scoring.Rule {
	h := in.Headers
	return []scoring.Rule{
		{Key: "https", Name: "HTTPS", Max: 20, Eval: func() scoring.Outcome {
			return scoring.Binary(isHTTPS(in.URL), 20, "Enabled", "Not enabled", model.StatusError)
		}},
		{Key: "hsts", Name: "HSTS", Max: 10, Eval: func() scoring.Outcome {
			return HSTSOutcome(h.Get("Strict-Transport-Security"))
		}},
		headerRule(h, "csp", "Content Security Policy", "Content-Security-Policy", 10),
		headerRule(h, "xFrameOptions", "X-Frame-Options", "X-Frame-Options", 5),
		{Key: "xContentTypeOptions", Name: "X-Content-Type-Options", Max: 5, Eval: func() scoring.Outcome {
			v := strings.TrimSpace(h.Get("X-Content-Type-Options"))
			if v != "" && !strings.EqualFold(v, "nosniff") {
				return scoring.Outcome{Value: v, Details: "Expected nosniff", Status: model.StatusWarning}
			}
			return scoring.Binary(v != "", 5, v, "Missing", model.StatusError)
		}},
		headerRule(h, "xXssProtection", "X-XSS-Protection", "X-XSS-Protection", 3),
		headerRule(h, "referrerPolicy", "Referrer-Policy", "Referrer-Policy", 5),
		{Key: "permissionsPolicy", Name: "Permissions-Policy", Max: 5, Eval: func() scoring.Outcome {
			v := h.Get("Permissions-Policy")
			if v == "" {
				v = h.Get("Feature-Policy")
			}
			return scoring.Binary(v != "", 5, truncate(v), "Missing", model.StatusWarning)
		}},
		{Key: "cacheControl", Name: "Cache-Control", Max: 3, Eval: func() scoring.Outcome {
			return CacheControlOutcome(h.Get("Cache-Control"))
		}},
		{Key: "crossOriginIsolation", Name: "Cross-Origin Isolation", Max: 4, Eval: func() scoring.Outcome {
			return CrossOriginOutcome(h)
		}},
	}
}

func headerRule(h http.Header, key, name, header string, points int) scoring.Rule {
	return scoring.Rule{Key: key, Name: name, Max: points, Eval: func() scoring.Outcome {
		v := strings.TrimSpace(h.Get(header))
		return scoring.Binary(v != "", points, truncate(v), "Missing", model.StatusWarning)
	}}
}

// HSTSOutcome scores a Strict-Transport-Security value. A missing preload
// directive caps the score at 8; a missing includeSubDomains caps it at 7
// regardless of preload.
func HSTSOutcome(v string) scoring.Outcome {
	v = strings.TrimSpace(v)
	if v == "" {
		return scoring.Outcome{Value: "Missing", Status: model.StatusError}
	}
	lower := strings.ToLower(v)
	score := 10
	var missing []string
	if !strings.Contains(lower, "preload") {
		score = min(score, 8)
		missing = append(missing, "preload")
	}
	if !strings.Contains(lower, "includesubdomains") {
		score = min(score, 7)
		missing = append(missing, "includeSubDomains")
	}
	out := scoring.Outcome{Score: score, Value: v, Status: model.StatusGood}
	if len(missing) > 0 {
		out.Details = "Missing " + strings.Join(missing, " and ")
		out.Status = model.StatusWarning
	}
	return out
}

// CacheControlOutcome rewards directives that keep responses out of shared
// caches.
func CacheControlOutcome(v string) scoring.Outcome {
	v = strings.TrimSpace(v)
	if v == "" {
		return scoring.Outcome{Value: "Missing", Status: model.StatusWarning}
	}
	lower := strings.ToLower(v)
	for _, d := range []string{"no-store", "private", "no-cache"} {
		if strings.Contains(lower, d) {
			return scoring.Outcome{Score: 3, Value: v, Status: model.StatusGood}
		}
	}
	return scoring.Outcome{Score: 1, Value: v, Details: "Response may be stored by shared caches", Status: model.StatusWarning}
}

// CrossOriginOutcome awards two points per cross-origin isolation header,
// capped at four.
func CrossOriginOutcome(h http.Header) scoring.Outcome {
	var present []string
	for _, name := range []string{
		"Cross-Origin-Embedder-Policy",
		"Cross-Origin-Opener-Policy",
		"Cross-Origin-Resource-Policy",
	} {
		if h.Get(name) != "" {
			present = append(present, name)
		}
	}
	score := min(4, 2*len(present))
	value := "None"
	if len(present) > 0 {
		value = strings.Join(present, ", ")
	}
	return scoring.Outcome{Score: score, Value: value, Status: scoring.StatusFor(score, 4)}
}

func isHTTPS(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.EqualFold(u.Scheme, "https")
}

func truncate(v string) string {
	const limit = 120
	if len(v) <= limit {
		return v
	}
	return v[:limit] + "..."
}
