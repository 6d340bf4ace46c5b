package performance

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Bahjat/site-scorecard/internal/document"
	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

var (
	unsafeAPIs = []*regexp.Regexp{
		regexp.MustCompile(`document\.write(ln)?\s*\(`),
		regexp.MustCompile(`\beval\s*\(`),
		regexp.MustCompile(`\bwith\s*\(`),
	}
	trackers        = []string{"google-analytics", "facebook.com/tr", "doubleclick.net"}
	pasteBlocked    = regexp.MustCompile(`(?i)onpaste\s*=\s*["']?\s*(return\s+false|event\.preventdefault)`)
	geolocationAPI  = regexp.MustCompile(`navigator\.geolocation\.(getCurrentPosition|watchPosition)`)
	notificationAPI = regexp.MustCompile(`Notification\.requestPermission`)
	userGesture     = regexp.MustCompile(`(?i)addEventListener\s*\(\s*["'](click|submit|touchend|keydown)["']|\bonclick\s*=`)
)

func bestPracticeRules(in Input) []scoring.Rule {
	doc := in.Doc
	raw := doc.Raw()
	return []scoring.Rule{
		{Key: "https", Name: "Uses HTTPS", Max: 19, Eval: func() scoring.Outcome {
			u, err := url.Parse(in.URL)
			ok := err == nil && strings.EqualFold(u.Scheme, "https")
			return scoring.Binary(ok, 19, "HTTPS", "HTTP", model.StatusError)
		}},
		{Key: "noUnsafeApis", Name: "Avoids deprecated and unsafe APIs", Max: 19, Eval: func() scoring.Outcome {
			for _, re := range unsafeAPIs {
				if m := re.FindString(raw); m != "" {
					return scoring.Outcome{Value: "Found " + strings.TrimSpace(m), Status: model.StatusError}
				}
			}
			return scoring.Outcome{Score: 19, Value: "None found", Status: model.StatusGood}
		}},
		{Key: "thirdPartyCookies", Name: "Avoids third-party tracking", Max: 19, Eval: func() scoring.Outcome {
			lower := strings.ToLower(raw)
			var found []string
			for _, t := range trackers {
				if strings.Contains(lower, t) {
					found = append(found, t)
				}
			}
			if len(found) > 0 {
				return scoring.Outcome{Score: 12, Value: strings.Join(found, ", "), Status: model.StatusWarning}
			}
			return scoring.Outcome{Score: 19, Value: "None found", Status: model.StatusGood}
		}},
		{Key: "pasteAllowed", Name: "Allows users to paste into input fields", Max: 12, Eval: func() scoring.Outcome {
			return scoring.Binary(!pasteBlocked.MatchString(raw), 12, "Allowed", "Paste is blocked", model.StatusError)
		}},
		{Key: "geolocation", Name: "Avoids requesting geolocation on page load", Max: 4, Eval: func() scoring.Outcome {
			return permissionOutcome(raw, geolocationAPI, 4)
		}},
		{Key: "notifications", Name: "Avoids requesting notification permission on page load", Max: 4, Eval: func() scoring.Outcome {
			return permissionOutcome(raw, notificationAPI, 4)
		}},
		{Key: "imageAspectRatio", Name: "Displays images with correct aspect ratio", Max: 4, Eval: func() scoring.Outcome {
			images := doc.Images()
			var sized int
			for _, img := range images {
				if img.HasAttr("width") && img.HasAttr("height") {
					sized++
				}
			}
			return scoring.Scaled(scoring.Ratio(sized, len(images)), 4,
				fmt.Sprintf("%d/%d with dimensions", sized, len(images)))
		}},
		{Key: "responsiveImages", Name: "Serves images with appropriate resolution", Max: 4, Eval: func() scoring.Outcome {
			images := doc.Images()
			switch {
			case len(images) == 0:
				return scoring.Outcome{Score: 4, Value: "No images", Status: model.StatusGood}
			case doc.Exists("img[srcset], picture"):
				return scoring.Outcome{Score: 4, Value: "Responsive images used", Status: model.StatusGood}
			default:
				return scoring.Outcome{Score: 2, Value: "No srcset or picture", Status: model.StatusWarning}
			}
		}},
		{Key: "doctype", Name: "Page has the HTML doctype", Max: 4, Eval: func() scoring.Outcome {
			return scoring.Binary(doc.HasDoctype(), 4, "Present", "Missing", model.StatusError)
		}},
		{Key: "charset", Name: "Properly defines charset", Max: 4, Eval: func() scoring.Outcome {
			cs := doc.Charset()
			if cs == "" {
				cs = document.CharsetFromContentType(in.Headers.Get("Content-Type"))
			}
			return scoring.Binary(cs != "", 4, cs, "Missing", model.StatusError)
		}},
		unverifiable("browserErrors", "No browser errors logged to the console", 4),
		unverifiable("inspectorIssues", "No issues in the Issues panel", 4),
	}
}

// permissionOutcome fails pages that call a permission API without any
// user-gesture listener on the page.
func permissionOutcome(raw string, api *regexp.Regexp, points int) scoring.Outcome {
	if api.MatchString(raw) && !userGesture.MatchString(raw) {
		return scoring.Outcome{Value: "Requested on load", Status: model.StatusError}
	}
	return scoring.Outcome{Score: points, Value: "Not requested on load", Status: model.StatusGood}
}

// unverifiable credits a check that needs a real browser to measure.
func unverifiable(key, name string, points int) scoring.Rule {
	return scoring.Rule{Key: key, Name: name, Max: points, Eval: func() scoring.Outcome {
		return scoring.Outcome{
			Score:   points,
			Value:   "N/A",
			Details: "Requires in-browser verification",
			Status:  model.StatusGood,
		}
	}}
}
