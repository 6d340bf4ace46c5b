// Package scoring holds the arithmetic shared by every analyzer: building
// checks, deriving statuses, and aggregating categories into scores.
package scoring

import (
	"math"

	"github.com/Bahjat/site-scorecard/internal/model"
)

// Weights for the overall score.
const (
	QualityWeight     = 0.35
	SecurityWeight    = 0.30
	PerformanceWeight = 0.35
)

// Rule is one row of a category table. Eval returns the earned points,
// the observed value, optional details and the status.
type Rule struct {
	Key  string
	Name string
	Max  int
	Eval func() Outcome
}

// Outcome is the result of evaluating a Rule.
type Outcome struct {
	Score   int
	Value   string
	Details string
	Status  model.Status
}

// Evaluate runs every rule of a table in order and returns the category.
func Evaluate(key, name string, rules []Rule) model.Category {
	checks := make([]model.Check, 0, len(rules))
	for _, r := range rules {
		out := r.Eval()
		checks = append(checks, NewCheck(r.Key, r.Name, r.Max, out))
	}
	return model.Category{Key: key, Name: name, Checks: checks}
}

// NewCheck builds a check, clamping the score into [0, max].
func NewCheck(key, name string, maxScore int, out Outcome) model.Check {
	return model.Check{
		Key:      key,
		Name:     name,
		Value:    out.Value,
		Details:  out.Details,
		Score:    Clamp(out.Score, 0, maxScore),
		MaxScore: maxScore,
		Status:   out.Status,
	}
}

// Clamp bounds v into [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Round rounds half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// StatusFor derives a status from the earned share of the maximum.
// Zero-max checks are informational and reported as good.
func StatusFor(score, maxScore int) model.Status {
	if maxScore <= 0 {
		return model.StatusGood
	}
	ratio := float64(score) / float64(maxScore)
	switch {
	case ratio >= 0.8:
		return model.StatusGood
	case ratio >= 0.5:
		return model.StatusWarning
	default:
		return model.StatusError
	}
}

// Ratio returns part/total, treating an empty population as fully
// compliant.
func Ratio(part, total int) float64 {
	if total <= 0 {
		return 1
	}
	return math.Min(1, float64(part)/float64(total))
}

// Scaled returns round(maxScore * ratio) as an outcome with a derived status.
func Scaled(ratio float64, maxScore int, value string) Outcome {
	score := Round(float64(maxScore) * ratio)
	return Outcome{Score: score, Value: value, Status: StatusFor(score, maxScore)}
}

// Binary awards all points when ok, otherwise zero with the given status.
func Binary(ok bool, maxScore int, value, missing string, failStatus model.Status) Outcome {
	if ok {
		return Outcome{Score: maxScore, Value: value, Status: model.StatusGood}
	}
	return Outcome{Value: missing, Status: failStatus}
}

// Percent returns round(100 * earned / max) over a set of categories.
// Zero-max checks add nothing to either side; an all-zero pool scores 0.
func Percent(categories ...model.Category) int {
	var earned, total int
	for _, c := range categories {
		earned += c.Score()
		total += c.MaxScore()
	}
	if total == 0 {
		return 0
	}
	return Round(100 * float64(earned) / float64(total))
}

// Flat builds a report whose score is the flat point share across all
// checks of all categories.
func Flat(categories ...model.Category) model.AnalyzerReport {
	return model.AnalyzerReport{
		Score:      Percent(categories...),
		Categories: categories,
	}
}

// Weighted combines category percentages with weights that sum to 1.
func Weighted(percents, weights []float64) int {
	var total float64
	for i, p := range percents {
		if i < len(weights) {
			total += p * weights[i]
		}
	}
	return Round(total)
}

// Overall combines the three analyzer scores into the composite score.
func Overall(quality, security, performance int) int {
	return Round(float64(quality)*QualityWeight +
		float64(security)*SecurityWeight +
		float64(performance)*PerformanceWeight)
}
