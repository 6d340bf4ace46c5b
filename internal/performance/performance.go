// Package performance derives Lighthouse-style performance, SEO, best
// practices and accessibility scores from static markup and a single
// observed load time. The metrics are approximations, not measurements.
package performance

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Bahjat/site-scorecard/internal/document"
	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

// Category weights for the overall page speed score.
const (
	PerformanceWeight   = 0.40
	SEOWeight           = 0.25
	BestPracticesWeight = 0.20
	AccessibilityWeight = 0.15
)

// Multipliers applied to the observed load time.
const (
	lcpFactor        = 1.3
	fcpFactor        = 0.6
	speedIndexFactor = 1.1
	blockingScriptMs = 50
)

// Input is everything the performance analyzer reads.
type Input struct {
	URL        string
	Doc        *document.Document
	Headers    http.Header
	LoadTimeMs float64
}

// Analyze evaluates the four categories and combines their percentages
// with fixed weights.
func Analyze(in Input) model.PageSpeedReport {
	perf := scoring.Evaluate("performance", "Performance", performanceRules(in))
	seo := scoring.Evaluate("seo", "SEO", seoRules(in))
	bp := scoring.Evaluate("bestPractices", "Best Practices", bestPracticeRules(in))
	a11y := scoring.Evaluate("accessibility", "Accessibility", accessibilityRules(in))

	report := model.PageSpeedReport{
		AnalyzerReport: model.AnalyzerReport{Categories: []model.Category{perf, seo, bp, a11y}},
		Performance:    scoring.Percent(perf),
		SEO:            scoring.Percent(seo),
		BestPractices:  scoring.Percent(bp),
		Accessibility:  scoring.Percent(a11y),
	}
	report.Score = scoring.Weighted(
		[]float64{
			float64(report.Performance),
			float64(report.SEO),
			float64(report.BestPractices),
			float64(report.Accessibility),
		},
		[]float64{PerformanceWeight, SEOWeight, BestPracticesWeight, AccessibilityWeight},
	)
	return report
}

func performanceRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		{Key: "lcp", Name: "Largest Contentful Paint", Max: 25, Eval: func() scoring.Outcome {
			return LCPOutcome(in.LoadTimeMs * lcpFactor)
		}},
		{Key: "fcp", Name: "First Contentful Paint", Max: 10, Eval: func() scoring.Outcome {
			return FCPOutcome(in.LoadTimeMs * fcpFactor)
		}},
		{Key: "tbt", Name: "Total Blocking Time", Max: 30, Eval: func() scoring.Outcome {
			return TBTOutcome(countBlockingScripts(in.Doc) * blockingScriptMs)
		}},
		{Key: "cls", Name: "Cumulative Layout Shift", Max: 25, Eval: func() scoring.Outcome {
			return CLSOutcome(countUnsizedMedia(in.Doc))
		}},
		{Key: "speedIndex", Name: "Speed Index", Max: 10, Eval: func() scoring.Outcome {
			return SpeedIndexOutcome(in.LoadTimeMs * speedIndexFactor)
		}},
	}
}

// LCPOutcome scores an estimated Largest Contentful Paint in milliseconds.
func LCPOutcome(ms float64) scoring.Outcome {
	return tiered(ms, 25, []tier{{2500, 25}, {4000, 22}}, 10)
}

// FCPOutcome scores an estimated First Contentful Paint in milliseconds.
func FCPOutcome(ms float64) scoring.Outcome {
	return tiered(ms, 10, []tier{{1800, 10}, {3000, 7}}, 3)
}

// SpeedIndexOutcome scores an estimated Speed Index in milliseconds.
func SpeedIndexOutcome(ms float64) scoring.Outcome {
	return tiered(ms, 10, []tier{{3400, 10}, {5800, 7}}, 3)
}

// TBTOutcome scores an estimated Total Blocking Time in milliseconds.
func TBTOutcome(ms int) scoring.Outcome {
	var score int
	switch {
	case ms > 600:
		score = 10
	case ms > 300:
		score = 20
	case ms > 150:
		score = 25
	default:
		score = 30
	}
	return scoring.Outcome{Score: score, Value: fmt.Sprintf("%d ms", ms), Status: scoring.StatusFor(score, 30)}
}

// CLSOutcome scores layout stability by the number of media elements
// without explicit dimensions.
func CLSOutcome(unsized int) scoring.Outcome {
	var score int
	switch {
	case unsized > 5:
		score = 10
	case unsized > 2:
		score = 18
	case unsized > 0:
		score = 22
	default:
		score = 25
	}
	return scoring.Outcome{
		Score:  score,
		Value:  fmt.Sprintf("%d unsized media element(s)", unsized),
		Status: scoring.StatusFor(score, 25),
	}
}

type tier struct {
	below float64
	score int
}

func tiered(ms float64, maxScore int, tiers []tier, floor int) scoring.Outcome {
	score := floor
	for _, t := range tiers {
		if ms < t.below {
			score = t.score
			break
		}
	}
	return scoring.Outcome{Score: score, Value: seconds(ms), Status: scoring.StatusFor(score, maxScore)}
}

func seconds(ms float64) string {
	return fmt.Sprintf("%.1f s", ms/1000)
}

// countBlockingScripts counts <script> elements that block parsing: not
// async, not deferred, not modules and not JSON data blocks.
func countBlockingScripts(doc *document.Document) int {
	var n int
	for _, s := range doc.Scripts() {
		if s.HasAttr("async") || s.HasAttr("defer") {
			continue
		}
		switch strings.ToLower(s.AttrOr("type")) {
		case "application/ld+json", "application/json", "module", "importmap", "text/template":
			continue
		}
		n++
	}
	return n
}

func countUnsizedMedia(doc *document.Document) int {
	var n int
	for _, el := range doc.All("img, iframe") {
		if !el.HasAttr("width") || !el.HasAttr("height") {
			n++
		}
	}
	return n
}
