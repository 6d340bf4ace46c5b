package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Status classifies the outcome of a single check.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Check is the smallest scoring unit: one rule with its observed value.
type Check struct {
	Key      string `json:"-"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Details  string `json:"details,omitempty"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
	Status   Status `json:"status"`
}

// Category is a named group of checks. Its totals are always derived from
// the checks it holds.
type Category struct {
	Key    string
	Name   string
	Checks []Check
}

// Score returns the sum of the earned points of all checks.
func (c Category) Score() int {
	var total int
	for _, ch := range c.Checks {
		total += ch.Score
	}
	return total
}

// MaxScore returns the sum of the available points of all checks.
func (c Category) MaxScore() int {
	var total int
	for _, ch := range c.Checks {
		total += ch.MaxScore
	}
	return total
}

// Check returns the check stored under key.
func (c Category) Check(key string) (Check, bool) {
	for _, ch := range c.Checks {
		if ch.Key == key {
			return ch, true
		}
	}
	return Check{}, false
}

// MarshalJSON renders checks as an object keyed by check key, preserving
// the order in which they were evaluated.
func (c Category) MarshalJSON() ([]byte, error) {
	checks, err := orderedObject(len(c.Checks), func(i int) (string, any) {
		return c.Checks[i].Key, c.Checks[i]
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Name     string          `json:"name"`
		Score    int             `json:"score"`
		MaxScore int             `json:"maxScore"`
		Checks   json.RawMessage `json:"checks"`
	}{
		Name:     c.Name,
		Score:    c.Score(),
		MaxScore: c.MaxScore(),
		Checks:   checks,
	})
}

// AnalyzerReport is one axis of the analysis with its own 0-100 score.
type AnalyzerReport struct {
	Score      int
	Categories []Category
}

// Category returns the category stored under key.
func (r AnalyzerReport) Category(key string) (Category, bool) {
	for _, c := range r.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// MarshalJSON renders categories as an ordered object keyed by category key.
func (r AnalyzerReport) MarshalJSON() ([]byte, error) {
	categories, err := r.categoriesJSON()
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Score      int             `json:"score"`
		Categories json.RawMessage `json:"categories"`
	}{
		Score:      r.Score,
		Categories: categories,
	})
}

func (r AnalyzerReport) categoriesJSON() (json.RawMessage, error) {
	return orderedObject(len(r.Categories), func(i int) (string, any) {
		return r.Categories[i].Key, r.Categories[i]
	})
}

// PageSpeedReport adds the four weighted category percentages to the
// synthetic performance report.
type PageSpeedReport struct {
	AnalyzerReport
	Performance   int
	SEO           int
	BestPractices int
	Accessibility int
}

// MarshalJSON flattens the embedded report next to the category percentages.
func (r PageSpeedReport) MarshalJSON() ([]byte, error) {
	categories, err := r.categoriesJSON()
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		Score         int             `json:"score"`
		Performance   int             `json:"performance"`
		SEO           int             `json:"seo"`
		BestPractices int             `json:"bestPractices"`
		Accessibility int             `json:"accessibility"`
		Categories    json.RawMessage `json:"categories"`
	}{
		Score:         r.Score,
		Performance:   r.Performance,
		SEO:           r.SEO,
		BestPractices: r.BestPractices,
		Accessibility: r.Accessibility,
		Categories:    categories,
	})
}

// Sections groups the three analyzer reports.
type Sections struct {
	WebsiteQuality AnalyzerReport  `json:"websiteQuality"`
	TrustSecurity  AnalyzerReport  `json:"trustSecurity"`
	PageSpeed      PageSpeedReport `json:"pageSpeed"`
}

// AnalysisResult holds the complete scored report for one page.
type AnalysisResult struct {
	URL          string    `json:"url"`
	AnalyzedAt   time.Time `json:"analyzedAt"`
	LoadTime     string    `json:"loadTime"`
	OverallScore int       `json:"overallScore"`
	Sections     Sections  `json:"sections"`
}

// ErrorResponse is the JSON shape returned on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// orderedObject encodes n key/value pairs as a JSON object without
// re-sorting the keys the way encoding/json does for maps.
func orderedObject(n int, pair func(i int) (string, any)) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range n {
		key, val := pair(i)
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
