package performance

import (
	"net/http"
	"testing"

	"github.com/Bahjat/site-scorecard/internal/document"
	"github.com/Bahjat/site-scorecard/internal/model"
)

const cleanPage = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Clean page</title>
	<meta name="description" content="A page with nothing to complain about.">
	<link rel="canonical" href="https://example.com/">
	<link rel="alternate" hreflang="de" href="https://example.com/de/">
</head>
<body>
	<h1>Welcome</h1>
	<h2>Details</h2>
	<p>Plain content.</p>
</body>
</html>`

func analyze(raw string, load float64) model.PageSpeedReport {
	return Analyze(Input{
		URL:        "https://example.com",
		Doc:        document.Parse(raw),
		Headers:    http.Header{},
		LoadTimeMs: load,
	})
}

func mustCheck(t *testing.T, r model.PageSpeedReport, category, key string) model.Check {
	t.Helper()
	c, ok := r.Category(category)
	if !ok {
		t.Fatalf("category %q not found", category)
	}
	ch, ok := c.Check(key)
	if !ok {
		t.Fatalf("check %q not found in %q", key, category)
	}
	return ch
}

func TestAnalyze_CleanPage(t *testing.T) {
	report := analyze(cleanPage, 1000)

	if report.Performance != 100 || report.SEO != 100 || report.BestPractices != 100 || report.Accessibility != 100 {
		t.Errorf("categories = %d/%d/%d/%d, want all 100",
			report.Performance, report.SEO, report.BestPractices, report.Accessibility)
	}
	if report.Score != 100 {
		t.Errorf("Score = %d, want 100", report.Score)
	}
	if len(report.Categories) != 4 {
		t.Fatalf("categories = %d, want 4", len(report.Categories))
	}
}

func TestAnalyze_WeightedBySlowLoad(t *testing.T) {
	// 6s load: LCP 7.8s -> 10, FCP 3.6s -> 3, Speed Index 6.6s -> 3.
	report := analyze(cleanPage, 6000)

	if report.Performance != 71 {
		t.Errorf("Performance = %d, want 71", report.Performance)
	}
	// 0.40*71 + 0.25*100 + 0.20*100 + 0.15*100
	if report.Score != 88 {
		t.Errorf("Score = %d, want 88", report.Score)
	}
}

func TestTimingOutcomes(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64) int
		ms   float64
		want int
	}{
		{"lcp fast", lcpScore, 2499, 25},
		{"lcp boundary", lcpScore, 2500, 22},
		{"lcp moderate", lcpScore, 3999, 22},
		{"lcp slow", lcpScore, 4000, 10},
		{"fcp fast", fcpScore, 1799, 10},
		{"fcp boundary", fcpScore, 1800, 7},
		{"fcp slow", fcpScore, 3000, 3},
		{"speed index fast", siScore, 3399, 10},
		{"speed index moderate", siScore, 5799, 7},
		{"speed index slow", siScore, 5800, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.ms); got != tt.want {
				t.Errorf("score(%v) = %d, want %d", tt.ms, got, tt.want)
			}
		})
	}
}

func lcpScore(ms float64) int { return LCPOutcome(ms).Score }
func fcpScore(ms float64) int { return FCPOutcome(ms).Score }
func siScore(ms float64) int  { return SpeedIndexOutcome(ms).Score }

func TestTBTOutcome(t *testing.T) {
	tests := map[int]int{0: 30, 150: 30, 151: 25, 300: 25, 301: 20, 600: 20, 601: 10}
	for ms, want := range tests {
		if got := TBTOutcome(ms).Score; got != want {
			t.Errorf("TBTOutcome(%d) = %d, want %d", ms, got, want)
		}
	}
}

func TestCLSOutcome(t *testing.T) {
	tests := map[int]int{0: 25, 1: 22, 2: 22, 3: 18, 5: 18, 6: 10}
	for n, want := range tests {
		if got := CLSOutcome(n).Score; got != want {
			t.Errorf("CLSOutcome(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestCountBlockingScripts(t *testing.T) {
	raw := `<html><head>
		<script src="a.js"></script>
		<script src="b.js"></script>
		<script>inline()</script>
		<script type="text/javascript" src="c.js"></script>
		<script async src="d.js"></script>
		<script defer src="e.js"></script>
		<script type="module" src="f.js"></script>
		<script type="application/ld+json">{}</script>
		<script type="importmap">{}</script>
	</head></html>`

	if got := countBlockingScripts(document.Parse(raw)); got != 4 {
		t.Errorf("countBlockingScripts() = %d, want 4", got)
	}

	report := analyze(raw, 0)
	if ch := mustCheck(t, report, "performance", "tbt"); ch.Score != 25 {
		t.Errorf("tbt = %d, want 25 for 200 ms", ch.Score)
	}
}

func TestCountUnsizedMedia(t *testing.T) {
	raw := `<body>
		<img src="a.png" width="10" height="10">
		<img src="b.png" width="10">
		<iframe src="/embed"></iframe>
	</body>`
	if got := countUnsizedMedia(document.Parse(raw)); got != 2 {
		t.Errorf("countUnsizedMedia() = %d, want 2", got)
	}
}

func TestHeadingOrderValid(t *testing.T) {
	tests := []struct {
		levels []int
		want   bool
	}{
		{levels: nil, want: true},
		{levels: []int{1, 2, 3}, want: true},
		{levels: []int{3}, want: true},
		{levels: []int{2, 1, 2}, want: true},
		{levels: []int{1, 3}, want: false},
		{levels: []int{1, 2, 4}, want: false},
	}
	for _, tt := range tests {
		if got := HeadingOrderValid(tt.levels); got != tt.want {
			t.Errorf("HeadingOrderValid(%v) = %v, want %v", tt.levels, got, tt.want)
		}
	}
}

func TestZoomAllowed(t *testing.T) {
	tests := map[string]bool{
		"":                                     true,
		"width=device-width, initial-scale=1":  true,
		"width=device-width, user-scalable=no": false,
		"user-scalable=0":                      false,
		"user-scalable=yes":                    true,
		"maximum-scale=1":                      false,
		"maximum-scale=5":                      true,
	}
	for vp, want := range tests {
		if got := ZoomAllowed(vp); got != want {
			t.Errorf("ZoomAllowed(%q) = %v, want %v", vp, got, want)
		}
	}
}

func TestAnalyze_SEO(t *testing.T) {
	raw := `<html lang="en"><head><title>T</title></head><body>
		<a href="/a">click here</a>
		<a href="/b">Pricing plans</a>
		<a href="javascript:void(0)">Open</a>
		<a href="javascript:void(0)">Close</a>
	</body></html>`
	report := Analyze(Input{
		URL:     "https://example.com",
		Doc:     document.Parse(raw),
		Headers: http.Header{"X-Robots-Tag": {"noindex, nofollow"}},
	})

	want := map[string]int{
		"indexable":      0,
		"linkText":       6,
		"crawlableLinks": 6,
		"hreflang":       4,
		"httpStatus":     8,
		"imageAlt":       8,
	}
	for key, score := range want {
		if ch := mustCheck(t, report, "seo", key); ch.Score != score {
			t.Errorf("%s = %d, want %d", key, ch.Score, score)
		}
	}
}

func TestAnalyze_ImageAlt(t *testing.T) {
	raw := `<body>
		<img src="a.png" alt="A">
		<img src="b.png" alt="">
		<img src="c.png" alt="C">
		<img src="d.png">
	</body>`
	report := analyze(raw, 0)

	if ch := mustCheck(t, report, "seo", "imageAlt"); ch.Score != 6 {
		t.Errorf("seo imageAlt = %d, want 6", ch.Score)
	}
	if ch := mustCheck(t, report, "accessibility", "imageAlt"); ch.Score != 4 {
		t.Errorf("accessibility imageAlt = %d, want 4", ch.Score)
	}
	if ch := mustCheck(t, report, "bestPractices", "responsiveImages"); ch.Score != 2 {
		t.Errorf("responsiveImages = %d, want 2", ch.Score)
	}
	if ch := mustCheck(t, report, "bestPractices", "imageAspectRatio"); ch.Score != 0 {
		t.Errorf("imageAspectRatio = %d, want 0", ch.Score)
	}
}

func TestAnalyze_BestPractices(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		key  string
		want int
	}{
		{name: "document.write", raw: `<script>document.write("x")</script>`, key: "noUnsafeApis", want: 0},
		{name: "eval", raw: `<script>eval ("1+1")</script>`, key: "noUnsafeApis", want: 0},
		{name: "retrieval is fine", raw: `<script>retrieval(1)</script>`, key: "noUnsafeApis", want: 19},
		{name: "tracker", raw: `<script src="https://www.google-analytics.com/analytics.js"></script>`, key: "thirdPartyCookies", want: 12},
		{name: "paste blocked", raw: `<input onpaste="return false">`, key: "pasteAllowed", want: 0},
		{name: "geolocation on load", raw: `<script>navigator.geolocation.getCurrentPosition(cb)</script>`, key: "geolocation", want: 0},
		{
			name: "geolocation on click",
			raw:  `<script>btn.addEventListener("click", () => navigator.geolocation.getCurrentPosition(cb))</script>`,
			key:  "geolocation",
			want: 4,
		},
		{name: "notifications on load", raw: `<script>Notification.requestPermission()</script>`, key: "notifications", want: 0},
		{name: "no doctype", raw: `<html></html>`, key: "doctype", want: 0},
		{name: "no charset", raw: `<html></html>`, key: "charset", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := mustCheck(t, analyze(tt.raw, 0), "bestPractices", tt.key)
			if ch.Score != tt.want {
				t.Errorf("%s = %d, want %d", tt.key, ch.Score, tt.want)
			}
		})
	}
}

func TestAnalyze_BestPracticesCharsetFromHeader(t *testing.T) {
	report := Analyze(Input{
		URL:     "https://example.com",
		Doc:     document.Parse("<html></html>"),
		Headers: http.Header{"Content-Type": {"text/html; charset=utf-8"}},
	})
	if ch := mustCheck(t, report, "bestPractices", "charset"); ch.Score != 4 {
		t.Errorf("charset = %d, want 4", ch.Score)
	}
}

func TestAnalyze_Accessibility(t *testing.T) {
	raw := `<!DOCTYPE html><html lang="english"><head><title>A</title></head>
	<body aria-hidden="true">
		<button>Go</button>
		<button></button>
		<input type="submit">
		<input type="button" value="Send">
		<label for="e">Email</label><input id="e">
		<label>Name <input></label>
		<input aria-label="Search">
		<input type="hidden" name="token">
		<input id="x">
		<ul><li>ok</li><div>bad</div></ul>
		<li>orphan</li>
		<p id="dup"></p><p id="dup"></p>
		<span tabindex="2"></span>
		<h1>A</h1><h3>C</h3>
	</body></html>`
	report := analyze(raw, 0)

	want := map[string]int{
		"buttonName":    4,
		"label":         4,
		"htmlHasLang":   3,
		"htmlLangValid": 0,
		"bodyNotHidden": 0,
		"listItem":      0,
		"list":          0,
		"tabindex":      0,
		"headingOrder":  0,
		"duplicateId":   0,
		"metaViewport":  3,
	}
	for key, score := range want {
		if ch := mustCheck(t, report, "accessibility", key); ch.Score != score {
			t.Errorf("%s = %d, want %d", key, ch.Score, score)
		}
	}

	if ch := mustCheck(t, report, "accessibility", "colorContrast"); ch.Score != 2 || ch.Value != "N/A" {
		t.Errorf("colorContrast = %d %q, want 2 N/A", ch.Score, ch.Value)
	}
}

func TestAnalyze_AccessibilityLinkAndFrameNames(t *testing.T) {
	raw := `<body>
		<a href="/a">Text</a>
		<a href="/b"><img src="i.png" alt="Logo"></a>
		<a href="/c" aria-label="Close"></a>
		<a href="/d"></a>
		<iframe src="/v" title="Video"></iframe>
	</body>`
	report := analyze(raw, 0)

	if ch := mustCheck(t, report, "accessibility", "linkName"); ch.Score != 2 {
		t.Errorf("linkName = %d, want 2", ch.Score)
	}
	if ch := mustCheck(t, report, "accessibility", "frameTitle"); ch.Score != 3 {
		t.Errorf("frameTitle = %d, want 3", ch.Score)
	}
}
