// Package quality scores markup, meta tags, social tags and crawlability.
package quality

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Bahjat/site-scorecard/internal/document"
	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

// Input is everything the quality analyzer reads. Empty auxiliary file
// contents mean the file is absent.
type Input struct {
	URL       string
	Doc       *document.Document
	Headers   http.Header
	RobotsTxt string
	Sitemap   string
	LLMsTxt   string
}

// Analyze evaluates every quality category and returns the flat-scored
// report.
func Analyze(in Input) model.AnalyzerReport {
	return scoring.Flat(
		scoring.Evaluate("siteQuality", "Site Quality", siteQualityRules(in)),
		scoring.Evaluate("contentQuality", "Content Quality", contentQualityRules(in)),
		scoring.Evaluate("openGraph", "Open Graph", openGraphRules(in)),
		scoring.Evaluate("twitterCards", "Twitter Cards", twitterRules(in)),
		scoring.Evaluate("technicalSeo", "Technical SEO", technicalRules(in)),
		scoring.Evaluate("crawlability", "Crawlability", crawlabilityRules(in)),
	)
}

func siteQualityRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		{Key: "title", Name: "Title", Max: 20, Eval: func() scoring.Outcome {
			return TitleOutcome(in.Doc.Title())
		}},
		{Key: "metaDescription", Name: "Meta Description", Max: 15, Eval: func() scoring.Outcome {
			desc, _ := in.Doc.Meta("description")
			return DescriptionOutcome(desc)
		}},
		{Key: "favicon", Name: "Favicon", Max: 5, Eval: func() scoring.Outcome {
			icons := in.Doc.LinkRel("icon")
			value := ""
			if len(icons) > 0 {
				value = icons[0].AttrOr("href")
				if value == "" {
					value = "Present"
				}
			}
			return scoring.Binary(len(icons) > 0, 5, value, "Missing", model.StatusError)
		}},
		{Key: "viewport", Name: "Viewport", Max: 5, Eval: func() scoring.Outcome {
			vp, ok := in.Doc.Meta("viewport")
			return scoring.Binary(ok, 5, orPresent(vp), "Missing", model.StatusError)
		}},
		{Key: "headings", Name: "Headings", Max: 5, Eval: func() scoring.Outcome {
			return HeadingsOutcome(in.Doc.Count("h1"))
		}},
	}
}

// TitleOutcome scores the page title by its length in characters.
func TitleOutcome(title string) scoring.Outcome {
	n := utf8.RuneCountInString(title)
	value := fmt.Sprintf("%s (%d chars)", title, n)
	switch {
	case n == 0:
		return scoring.Outcome{Value: "Missing", Status: model.StatusError}
	case n >= 30 && n <= 60:
		return scoring.Outcome{Score: 20, Value: value, Status: model.StatusGood}
	case n < 30:
		return scoring.Outcome{Score: 16, Value: value, Details: "Title is shorter than 30 characters", Status: model.StatusWarning}
	default:
		return scoring.Outcome{Score: 12, Value: value, Details: "Title is longer than 60 characters", Status: model.StatusWarning}
	}
}

// DescriptionOutcome scores the meta description by its length in characters.
func DescriptionOutcome(desc string) scoring.Outcome {
	n := utf8.RuneCountInString(desc)
	value := fmt.Sprintf("%d chars", n)
	switch {
	case n == 0:
		return scoring.Outcome{Value: "Missing", Status: model.StatusError}
	case n >= 120 && n <= 160:
		return scoring.Outcome{Score: 15, Value: value, Status: model.StatusGood}
	case n < 120:
		return scoring.Outcome{Score: 10, Value: value, Details: "Description is shorter than 120 characters", Status: model.StatusWarning}
	default:
		return scoring.Outcome{Score: 8, Value: value, Details: "Description is longer than 160 characters", Status: model.StatusWarning}
	}
}

// HeadingsOutcome scores the number of H1 elements.
func HeadingsOutcome(h1 int) scoring.Outcome {
	value := fmt.Sprintf("%d H1 tag(s)", h1)
	switch {
	case h1 == 1:
		return scoring.Outcome{Score: 5, Value: value, Status: model.StatusGood}
	case h1 > 1:
		return scoring.Outcome{Score: 3, Value: value, Details: "Use a single H1 per page", Status: model.StatusWarning}
	default:
		return scoring.Outcome{Value: value, Details: "No H1 found", Status: model.StatusWarning}
	}
}

func contentQualityRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		{Key: "contentLength", Name: "Content Length", Max: 5, Eval: func() scoring.Outcome {
			return ContentLengthOutcome(in.Doc.WordCount())
		}},
		{Key: "imageOptimization", Name: "Image Optimization", Max: 4, Eval: func() scoring.Outcome {
			images := in.Doc.Images()
			var webp int
			for _, img := range images {
				if isWebP(img.AttrOr("src")) {
					webp++
				}
			}
			optimized := webp + in.Doc.Count("picture")
			return scoring.Scaled(
				scoring.Ratio(optimized, len(images)), 4,
				fmt.Sprintf("%d/%d optimized", min(optimized, len(images)), len(images)),
			)
		}},
	}
}

// ContentLengthOutcome scores the visible word count.
func ContentLengthOutcome(words int) scoring.Outcome {
	value := fmt.Sprintf("%d words", words)
	switch {
	case words >= 300:
		return scoring.Outcome{Score: 5, Value: value, Status: model.StatusGood}
	case words >= 100:
		return scoring.Outcome{Score: 3, Value: value, Status: model.StatusWarning}
	default:
		return scoring.Outcome{Value: value, Details: "Thin content", Status: model.StatusWarning}
	}
}

func isWebP(src string) bool {
	src = strings.ToLower(src)
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return strings.HasSuffix(src, ".webp")
}

func openGraphRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		metaRule(in, "ogTitle", "OG Title", "og:title", 5),
		metaRule(in, "ogDescription", "OG Description", "og:description", 5),
		metaRule(in, "ogImage", "OG Image", "og:image", 5),
	}
}

func twitterRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		metaRule(in, "twitterCard", "Twitter Card", "twitter:card", 3),
		metaRule(in, "twitterTitle", "Twitter Title", "twitter:title", 3),
		metaRule(in, "twitterDescription", "Twitter Description", "twitter:description", 2),
		metaRule(in, "twitterImage", "Twitter Image", "twitter:image", 2),
	}
}

func metaRule(in Input, key, name, meta string, points int) scoring.Rule {
	return scoring.Rule{Key: key, Name: name, Max: points, Eval: func() scoring.Outcome {
		v, ok := in.Doc.Meta(meta)
		return scoring.Binary(ok && v != "", points, v, "Missing", model.StatusWarning)
	}}
}

func technicalRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		{Key: "canonical", Name: "Canonical URL", Max: 5, Eval: func() scoring.Outcome {
			links := in.Doc.LinkRel("canonical")
			var href string
			if len(links) > 0 {
				href = links[0].AttrOr("href")
			}
			return scoring.Binary(href != "", 5, href, "Missing", model.StatusWarning)
		}},
		{Key: "language", Name: "Language", Max: 3, Eval: func() scoring.Outcome {
			lang, ok := in.Doc.Lang()
			return scoring.Binary(ok, 3, lang, "Missing", model.StatusWarning)
		}},
		{Key: "charset", Name: "Charset", Max: 3, Eval: func() scoring.Outcome {
			cs := in.Doc.Charset()
			if cs == "" {
				cs = document.CharsetFromContentType(in.Headers.Get("Content-Type"))
			}
			return scoring.Binary(cs != "", 3, cs, "Missing", model.StatusWarning)
		}},
		{Key: "structuredData", Name: "Structured Data", Max: 4, Eval: func() scoring.Outcome {
			n := countJSONLD(in.Doc)
			return scoring.Binary(n > 0, 4, fmt.Sprintf("%d JSON-LD block(s)", n), "Missing", model.StatusWarning)
		}},
	}
}

func countJSONLD(doc *document.Document) int {
	var n int
	for _, s := range doc.Scripts() {
		if strings.EqualFold(s.AttrOr("type"), "application/ld+json") {
			n++
		}
	}
	return n
}

func crawlabilityRules(in Input) []scoring.Rule {
	return []scoring.Rule{
		{Key: "robotsTxt", Name: "Robots.txt", Max: 4, Eval: func() scoring.Outcome {
			return scoring.Binary(in.RobotsTxt != "", 4, "Found", "Missing", model.StatusError)
		}},
		{Key: "sitemap", Name: "Sitemap", Max: 4, Eval: func() scoring.Outcome {
			return scoring.Binary(in.Sitemap != "", 4, "Found", "Missing", model.StatusWarning)
		}},
		{Key: "llmsTxt", Name: "LLMs.txt", Max: 3, Eval: func() scoring.Outcome {
			return scoring.Binary(in.LLMsTxt != "", 3, "Found", "Missing", model.StatusError)
		}},
	}
}

func orPresent(v string) string {
	if v == "" {
		return "Present"
	}
	return v
}
