package security

import (
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

const notAvailable = "Not available"

// fingerprint identifies a vendor from response headers.
type fingerprint struct {
	name  string
	match func(h http.Header) bool
}

func headerContains(name, substr string) func(http.Header) bool {
	return func(h http.Header) bool {
		return strings.Contains(strings.ToLower(h.Get(name)), substr)
	}
}

func headerPresent(name string) func(http.Header) bool {
	return func(h http.Header) bool {
		return h.Get(name) != ""
	}
}

func anyOf(fns ...func(http.Header) bool) func(http.Header) bool {
	return func(h http.Header) bool {
		for _, fn := range fns {
			if fn(h) {
				return true
			}
		}
		return false
	}
}

// providers is a priority list: fronting services come before origin
// servers, so the first match wins.
var providers = []fingerprint{
	{"Cloudflare", anyOf(headerPresent("CF-Ray"), headerContains("Server", "cloudflare"))},
	{"Vercel", anyOf(headerPresent("X-Vercel-Id"), headerContains("Server", "vercel"))},
	{"AWS CloudFront", anyOf(headerPresent("X-Amz-Cf-Id"), headerContains("Via", "cloudfront"), headerContains("X-Cache", "cloudfront"))},
	{"Nginx", headerContains("Server", "nginx")},
	{"Apache", headerContains("Server", "apache")},
	{"Netlify", anyOf(headerPresent("X-NF-Request-Id"), headerContains("Server", "netlify"))},
	{"Google", anyOf(headerContains("Server", "gws"), headerContains("Server", "google"), headerPresent("X-Goog-Generation"))},
	{"Microsoft IIS", headerContains("Server", "microsoft-iis")},
}

var cdns = []fingerprint{
	{"Cloudflare", headerPresent("CF-Ray")},
	{"Vercel", anyOf(headerPresent("X-Vercel-Cache"), headerPresent("X-Vercel-Id"))},
	{"AWS CloudFront", anyOf(headerPresent("X-Amz-Cf-Id"), headerContains("Via", "cloudfront"))},
	{"Fastly", anyOf(headerPresent("X-Fastly-Request-Id"), headerContains("X-Served-By", "cache-"))},
	{"Akamai", anyOf(headerPresent("X-Akamai-Transformed"), headerContains("Server", "akamai"))},
	{"Netlify", headerPresent("X-NF-Request-Id")},
	{"Varnish", anyOf(headerPresent("X-Varnish"), headerContains("Via", "varnish"))},
}

var wafs = []fingerprint{
	{"Cloudflare", headerPresent("CF-Ray")},
	{"Sucuri", anyOf(headerPresent("X-Sucuri-Id"), headerContains("Server", "sucuri"))},
	{"Akamai", headerContains("Server", "akamaighost")},
	{"Imperva", anyOf(headerPresent("X-Iinfo"), headerContains("X-CDN", "imperva"), headerContains("Set-Cookie", "incap_ses"))},
	{"AWS WAF", anyOf(headerPresent("X-Amzn-Waf-Action"), headerContains("Server", "awselb"))},
	{"F5 BIG-IP", anyOf(headerContains("Server", "big-ip"), headerContains("Set-Cookie", "bigipserver"))},
}

// detect returns the first fingerprint name matching h, or "".
func detect(list []fingerprint, h http.Header) string {
	for _, f := range list {
		if f.match(h) {
			return f.name
		}
	}
	return ""
}

// DetectProvider returns the hosting provider inferred from response headers.
func DetectProvider(h http.Header) string {
	return detect(providers, h)
}

var versionPattern = regexp.MustCompile(`\d+(\.\d+)+|/\d`)

func infrastructureRules(in Input) []scoring.Rule {
	h := in.Headers
	return []scoring.Rule{
		{Key: "hostingProvider", Name: "Hosting Provider", Max: 0, Eval: func() scoring.Outcome {
			p := DetectProvider(h)
			if p == "" {
				return scoring.Outcome{Value: "Unknown", Status: model.StatusWarning}
			}
			return scoring.Outcome{Value: p, Status: model.StatusGood}
		}},
		{Key: "cdn", Name: "CDN", Max: 5, Eval: func() scoring.Outcome {
			c := detect(cdns, h)
			return scoring.Binary(c != "", 5, c, "Not detected", model.StatusWarning)
		}},
		{Key: "serverVersionHidden", Name: "Server Version Hidden", Max: 3, Eval: func() scoring.Outcome {
			server := strings.TrimSpace(h.Get("Server"))
			if server != "" && versionPattern.MatchString(server) {
				return scoring.Outcome{Value: server, Details: "Server header exposes a version", Status: model.StatusWarning}
			}
			return scoring.Outcome{Score: 3, Value: orHidden(server), Status: model.StatusGood}
		}},
		{Key: "poweredByHidden", Name: "X-Powered-By Hidden", Max: 2, Eval: func() scoring.Outcome {
			v := strings.TrimSpace(h.Get("X-Powered-By"))
			return scoring.Binary(v == "", 2, "Hidden", v, model.StatusWarning)
		}},
		{Key: "waf", Name: "WAF", Max: 0, Eval: func() scoring.Outcome {
			w := detect(wafs, h)
			if w == "" {
				return scoring.Outcome{Value: "Not detected", Status: model.StatusWarning}
			}
			return scoring.Outcome{Value: w, Status: model.StatusGood}
		}},
	}
}

func domainRules(in Input) []scoring.Rule {
	unavailable := func(key, name string) scoring.Rule {
		return scoring.Rule{Key: key, Name: name, Eval: func() scoring.Outcome {
			return scoring.Outcome{
				Value:   notAvailable,
				Details: "Requires an external WHOIS or domain authority service",
				Status:  model.StatusWarning,
			}
		}}
	}
	return []scoring.Rule{
		{Key: "domain", Name: "Registrable Domain", Eval: func() scoring.Outcome {
			d := RegistrableDomain(in.URL)
			if d == "" {
				return scoring.Outcome{Value: notAvailable, Status: model.StatusWarning}
			}
			return scoring.Outcome{Value: d, Status: model.StatusGood}
		}},
		unavailable("domainRating", "Domain Rating"),
		unavailable("domainAge", "Domain Age"),
		unavailable("registrar", "Registrar"),
		unavailable("country", "Country"),
	}
}

// RegistrableDomain returns the eTLD+1 of the URL host, or "" when it
// cannot be derived (IP literals, single-label hosts).
func RegistrableDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}

func orHidden(v string) string {
	if v == "" {
		return "Hidden"
	}
	return v
}
