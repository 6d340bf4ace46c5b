package performance

import (
	"fmt"
	"strings"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

var genericLinkText = map[string]struct{}{
	"click here": {},
	"here":       {},
	"read more":  {},
	"link":       {},
	"more":       {},
}

func seoRules(in Input) []scoring.Rule {
	doc := in.Doc
	return []scoring.Rule{
		{Key: "indexable", Name: "Page is indexable", Max: 31, Eval: func() scoring.Outcome {
			robots, _ := doc.Meta("robots")
			noindex := strings.Contains(strings.ToLower(robots), "noindex") ||
				strings.Contains(strings.ToLower(in.Headers.Get("X-Robots-Tag")), "noindex")
			return scoring.Binary(!noindex, 31, "Indexable", "Blocked by noindex", model.StatusError)
		}},
		{Key: "documentTitle", Name: "Document has a title", Max: 8, Eval: func() scoring.Outcome {
			title := doc.Title()
			return scoring.Binary(title != "", 8, "Present", "Missing", model.StatusError)
		}},
		{Key: "metaDescription", Name: "Document has a meta description", Max: 8, Eval: func() scoring.Outcome {
			desc, _ := doc.Meta("description")
			return scoring.Binary(desc != "", 8, "Present", "Missing", model.StatusError)
		}},
		{Key: "httpStatus", Name: "Page has successful HTTP status code", Max: 8, Eval: func() scoring.Outcome {
			return scoring.Outcome{Score: 8, Value: "200", Status: model.StatusGood}
		}},
		{Key: "linkText", Name: "Links have descriptive text", Max: 8, Eval: func() scoring.Outcome {
			anchors := doc.Anchors()
			var descriptive int
			for _, a := range anchors {
				if _, generic := genericLinkText[strings.ToLower(a.Text())]; !generic {
					descriptive++
				}
			}
			return scoring.Scaled(scoring.Ratio(descriptive, len(anchors)), 8,
				fmt.Sprintf("%d/%d descriptive", descriptive, len(anchors)))
		}},
		{Key: "crawlableLinks", Name: "Links are crawlable", Max: 8, Eval: func() scoring.Outcome {
			var jsLinks int
			for _, a := range doc.Anchors() {
				if strings.HasPrefix(strings.ToLower(a.AttrOr("href")), "javascript:") {
					jsLinks++
				}
			}
			score := max(0, 8-jsLinks)
			return scoring.Outcome{
				Score:  score,
				Value:  fmt.Sprintf("%d javascript: link(s)", jsLinks),
				Status: scoring.StatusFor(score, 8),
			}
		}},
		{Key: "robotsTxt", Name: "robots.txt is valid", Max: 8, Eval: func() scoring.Outcome {
			return scoring.Outcome{Score: 8, Value: "Not validated", Details: "Credited without validation", Status: model.StatusGood}
		}},
		{Key: "imageAlt", Name: "Image elements have alt attributes", Max: 8, Eval: func() scoring.Outcome {
			return altOutcome(in, 8)
		}},
		{Key: "hreflang", Name: "Document has a valid hreflang", Max: 8, Eval: func() scoring.Outcome {
			if doc.Exists("link[hreflang]") {
				return scoring.Outcome{Score: 8, Value: "hreflang links present", Status: model.StatusGood}
			}
			if lang, ok := doc.Lang(); ok {
				return scoring.Outcome{Score: 4, Value: "lang=" + lang, Details: "No hreflang alternates", Status: model.StatusWarning}
			}
			return scoring.Outcome{Value: "Missing", Status: model.StatusError}
		}},
		{Key: "canonical", Name: "Document has a valid rel=canonical", Max: 8, Eval: func() scoring.Outcome {
			links := doc.LinkRel("canonical")
			ok := len(links) > 0 && links[0].AttrOr("href") != ""
			return scoring.Binary(ok, 8, "Present", "Missing", model.StatusWarning)
		}},
	}
}

func altOutcome(in Input, points int) scoring.Outcome {
	images := in.Doc.Images()
	var withAlt int
	for _, img := range images {
		if img.HasAttr("alt") {
			withAlt++
		}
	}
	return scoring.Scaled(scoring.Ratio(withAlt, len(images)), points,
		fmt.Sprintf("%d/%d with alt", withAlt, len(images)))
}
