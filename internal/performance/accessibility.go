package performance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Bahjat/site-scorecard/internal/document"
	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

var langPattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

const informationalPoints = 2

func accessibilityRules(in Input) []scoring.Rule {
	doc := in.Doc
	return []scoring.Rule{
		{Key: "buttonName", Name: "Buttons have an accessible name", Max: 5, Eval: func() scoring.Outcome {
			buttons := doc.All(`button, input[type="button"], input[type="submit"], input[type="reset"], [role="button"]`)
			return namedRatio(buttons, hasButtonName, 5)
		}},
		{Key: "imageAlt", Name: "Image elements have [alt] attributes", Max: 5, Eval: func() scoring.Outcome {
			return altOutcome(in, 5)
		}},
		{Key: "label", Name: "Form elements have associated labels", Max: 5, Eval: func() scoring.Outcome {
			return labelOutcome(doc)
		}},
		{Key: "linkName", Name: "Links have a discernible name", Max: 3, Eval: func() scoring.Outcome {
			return namedRatio(doc.Anchors(), hasLinkName, 3)
		}},
		{Key: "frameTitle", Name: "Frames have a title", Max: 3, Eval: func() scoring.Outcome {
			return namedRatio(doc.All("iframe, frame"), func(el document.Element) bool {
				return el.AttrOr("title") != ""
			}, 3)
		}},
		{Key: "documentTitle", Name: "Document has a <title> element", Max: 3, Eval: func() scoring.Outcome {
			return scoring.Binary(doc.Title() != "", 3, "Present", "Missing", model.StatusError)
		}},
		{Key: "htmlHasLang", Name: "<html> element has a [lang] attribute", Max: 3, Eval: func() scoring.Outcome {
			lang, ok := doc.Lang()
			return scoring.Binary(ok, 3, lang, "Missing", model.StatusError)
		}},
		{Key: "htmlLangValid", Name: "<html> element has a valid value for its [lang] attribute", Max: 3, Eval: func() scoring.Outcome {
			lang, _ := doc.Lang()
			return scoring.Binary(langPattern.MatchString(lang), 3, lang, "Invalid or missing", model.StatusError)
		}},
		{Key: "bodyNotHidden", Name: "[aria-hidden=\"true\"] is not present on the document <body>", Max: 3, Eval: func() scoring.Outcome {
			body, ok := doc.Body()
			hidden := ok && strings.EqualFold(body.AttrOr("aria-hidden"), "true")
			return scoring.Binary(!hidden, 3, "Visible", "Body is aria-hidden", model.StatusError)
		}},
		{Key: "listItem", Name: "List items (<li>) are contained within <ul>, <ol> or <menu>", Max: 3, Eval: func() scoring.Outcome {
			var orphans int
			for _, li := range doc.All("li") {
				switch li.ParentTag() {
				case "ul", "ol", "menu":
				default:
					orphans++
				}
			}
			return scoring.Binary(orphans == 0, 3, "All contained", fmt.Sprintf("%d orphaned item(s)", orphans), model.StatusError)
		}},
		{Key: "list", Name: "Lists contain only <li>, <script> or <template> elements", Max: 3, Eval: func() scoring.Outcome {
			var invalid int
			for _, list := range doc.All("ul, ol") {
				for _, child := range list.Children() {
					switch child.Tag() {
					case "li", "script", "template":
					default:
						invalid++
					}
				}
			}
			return scoring.Binary(invalid == 0, 3, "Well formed", fmt.Sprintf("%d invalid child element(s)", invalid), model.StatusError)
		}},
		{Key: "tabindex", Name: "No element has a [tabindex] value greater than 0", Max: 3, Eval: func() scoring.Outcome {
			var positive int
			for _, v := range doc.Attrs("[tabindex]", "tabindex") {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
					positive++
				}
			}
			return scoring.Binary(positive == 0, 3, "None", fmt.Sprintf("%d element(s)", positive), model.StatusError)
		}},
		{Key: "headingOrder", Name: "Heading elements appear in a sequentially-descending order", Max: 3, Eval: func() scoring.Outcome {
			ok := HeadingOrderValid(doc.HeadingLevels())
			return scoring.Binary(ok, 3, "Sequential", "Heading levels skipped", model.StatusWarning)
		}},
		{Key: "duplicateId", Name: "[id] attributes on the page are unique", Max: 3, Eval: func() scoring.Outcome {
			seen := make(map[string]bool)
			var dupes int
			for _, id := range doc.Attrs("[id]", "id") {
				if seen[id] {
					dupes++
				}
				seen[id] = true
			}
			return scoring.Binary(dupes == 0, 3, "Unique", fmt.Sprintf("%d duplicate(s)", dupes), model.StatusWarning)
		}},
		{Key: "metaViewport", Name: "[user-scalable=\"no\"] is not used and [maximum-scale] is not less than 5", Max: 3, Eval: func() scoring.Outcome {
			vp, _ := doc.Meta("viewport")
			return scoring.Binary(ZoomAllowed(vp), 3, "Zoom allowed", "Zoom restricted", model.StatusError)
		}},
		browserOnly("ariaAllowedAttr", "[aria-*] attributes match their roles"),
		browserOnly("ariaRequiredAttr", "[role]s have all required [aria-*] attributes"),
		browserOnly("ariaValidAttrValue", "[aria-*] attributes have valid values"),
		browserOnly("colorContrast", "Background and foreground colors have a sufficient contrast ratio"),
		browserOnly("targetSize", "Touch targets have sufficient size and spacing"),
		browserOnly("focusableControls", "Interactive controls are keyboard focusable"),
		browserOnly("logicalTabOrder", "The page has a logical tab order"),
		browserOnly("visualOrder", "Visual order on the page follows DOM order"),
	}
}

// HeadingOrderValid reports whether heading levels never increase by more
// than one step at a time.
func HeadingOrderValid(levels []int) bool {
	for i := 1; i < len(levels); i++ {
		if levels[i] > levels[i-1]+1 {
			return false
		}
	}
	return true
}

// ZoomAllowed reports whether a viewport declaration permits pinch zoom.
func ZoomAllowed(viewport string) bool {
	for _, part := range strings.Split(strings.ToLower(viewport), ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "user-scalable":
			if val == "no" || val == "0" {
				return false
			}
		case "maximum-scale":
			if f, err := strconv.ParseFloat(val, 64); err == nil && f < 5 {
				return false
			}
		}
	}
	return true
}

func namedRatio(els []document.Element, named func(document.Element) bool, points int) scoring.Outcome {
	var n int
	for _, el := range els {
		if named(el) {
			n++
		}
	}
	return scoring.Scaled(scoring.Ratio(n, len(els)), points, fmt.Sprintf("%d/%d named", n, len(els)))
}

func hasAriaName(el document.Element) bool {
	return el.AttrOr("aria-label") != "" || el.AttrOr("aria-labelledby") != "" || el.AttrOr("title") != ""
}

func hasButtonName(el document.Element) bool {
	if hasAriaName(el) || el.Text() != "" {
		return true
	}
	if el.Tag() == "input" {
		switch strings.ToLower(el.AttrOr("type")) {
		case "submit", "reset":
			return true
		default:
			return el.AttrOr("value") != ""
		}
	}
	return false
}

func hasLinkName(el document.Element) bool {
	if hasAriaName(el) || el.Text() != "" {
		return true
	}
	for _, img := range el.Find("img[alt]") {
		if img.AttrOr("alt") != "" {
			return true
		}
	}
	return false
}

func labelOutcome(doc *document.Document) scoring.Outcome {
	labelled := make(map[string]bool)
	for _, id := range doc.Attrs("label[for]", "for") {
		labelled[strings.TrimSpace(id)] = true
	}

	var controls, named int
	for _, el := range doc.All("input, select, textarea") {
		if el.Tag() == "input" {
			switch strings.ToLower(el.AttrOr("type")) {
			case "hidden", "submit", "button", "reset", "image":
				continue
			}
		}
		controls++
		id := el.AttrOr("id")
		if hasAriaName(el) || el.HasAncestor("label") || (id != "" && labelled[id]) {
			named++
		}
	}
	return scoring.Scaled(scoring.Ratio(named, controls), 5, fmt.Sprintf("%d/%d labelled", named, controls))
}

// browserOnly credits an accessibility audit that cannot be evaluated
// without rendering the page.
func browserOnly(key, name string) scoring.Rule {
	return unverifiable(key, name, informationalPoints)
}
