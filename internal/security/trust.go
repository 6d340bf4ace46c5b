package security

import (
	"regexp"

	"github.com/Bahjat/site-scorecard/internal/model"
	"github.com/Bahjat/site-scorecard/internal/scoring"
)

type indicator struct {
	key     string
	name    string
	points  int
	pattern *regexp.Regexp
}

var indicators = []indicator{
	{"privacyPolicy", "Privacy Policy", 4, regexp.MustCompile(`(?i)privacy[\s_-]*(policy|notice|statement)|/privacy`)},
	{"termsOfService", "Terms of Service", 3, regexp.MustCompile(`(?i)terms[\s_-]*(of[\s_-]*(service|use)|and[\s_-]*conditions|&amp;[\s_-]*conditions)|/terms|/tos\b`)},
	{"contactInfo", "Contact Information", 3, regexp.MustCompile(`(?i)contact[\s_-]*us|/contact|mailto:|tel:`)},
	{"cookieConsent", "Cookie Consent", 3, regexp.MustCompile(`(?i)cookie[\s_-]*(consent|banner|notice|policy|settings|preferences)|cookiebot|onetrust|cookieyes|cookie-law`)},
	{"aboutPage", "About Page", 2, regexp.MustCompile(`(?i)about[\s_-]*us|/about`)},
	{"physicalAddress", "Physical Address", 2, regexp.MustCompile(`(?i)<address[\s>]|postaladdress|streetaddress|\d+\s+[a-z]+(\s+[a-z]+)?\s+(street|avenue|road|boulevard|blvd|lane|drive|st|ave|rd)\b`)},
	{"socialLinks", "Social Media Links", 2, regexp.MustCompile(`(?i)https?://(www\.)?(facebook\.com/[a-z0-9.]{3,}|twitter\.com/|x\.com/|linkedin\.com/|instagram\.com/|youtube\.com/|github\.com/|tiktok\.com/)`)},
	{"trustBadges", "Trust Badges", 2, regexp.MustCompile(`(?i)trustpilot|norton[\s_-]*secured|mcafee[\s_-]*secure|verisign|bbb\.org|trustedsite|digicert[\s_-]*seal|ssl[\s_-]*secure`)},
	{"gdprCompliance", "GDPR Compliance", 2, regexp.MustCompile(`(?i)\bgdpr\b|general data protection regulation|data protection officer|\bccpa\b`)},
}

func trustRules(in Input) []scoring.Rule {
	rules := make([]scoring.Rule, 0, len(indicators))
	for _, ind := range indicators {
		rules = append(rules, scoring.Rule{Key: ind.key, Name: ind.name, Max: ind.points, Eval: func() scoring.Outcome {
			return scoring.Binary(ind.pattern.MatchString(in.HTML), ind.points, "Found", "Not found", model.StatusWarning)
		}})
	}
	return rules
}
