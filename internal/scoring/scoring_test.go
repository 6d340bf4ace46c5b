package scoring

import (
	"testing"

	"github.com/Bahjat/site-scorecard/internal/model"
)

func TestNewCheck_ClampsScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		max   int
		want  int
	}{
		{name: "within range", score: 3, max: 5, want: 3},
		{name: "above max", score: 9, max: 5, want: 5},
		{name: "negative", score: -2, max: 5, want: 0},
		{name: "informational", score: 4, max: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCheck("k", "K", tt.max, Outcome{Score: tt.score})
			if c.Score != tt.want {
				t.Errorf("Score = %d, want %d", c.Score, tt.want)
			}
			if c.Score < 0 || c.Score > c.MaxScore {
				t.Errorf("score %d outside [0, %d]", c.Score, c.MaxScore)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		score, max int
		want       model.Status
	}{
		{score: 5, max: 5, want: model.StatusGood},
		{score: 4, max: 5, want: model.StatusGood},
		{score: 3, max: 5, want: model.StatusWarning},
		{score: 2, max: 5, want: model.StatusError},
		{score: 0, max: 0, want: model.StatusGood},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.score, tt.max); got != tt.want {
			t.Errorf("StatusFor(%d, %d) = %q, want %q", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestRatio_EmptyPopulationIsCompliant(t *testing.T) {
	if got := Ratio(0, 0); got != 1 {
		t.Errorf("Ratio(0, 0) = %v, want 1", got)
	}
	if got := Ratio(1, 4); got != 0.25 {
		t.Errorf("Ratio(1, 4) = %v, want 0.25", got)
	}
	if got := Ratio(6, 4); got != 1 {
		t.Errorf("Ratio(6, 4) = %v, want 1 (capped)", got)
	}
}

func TestScaled(t *testing.T) {
	out := Scaled(0.5, 5, "2/4")
	// 2.5 rounds half away from zero.
	if out.Score != 3 {
		t.Errorf("Score = %d, want 3", out.Score)
	}
	if out.Status != model.StatusWarning {
		t.Errorf("Status = %q, want %q", out.Status, model.StatusWarning)
	}
}

func TestEvaluate_CategoryIsSumOfChecks(t *testing.T) {
	c := Evaluate("cat", "Category", []Rule{
		{Key: "a", Name: "A", Max: 10, Eval: func() Outcome { return Outcome{Score: 7} }},
		{Key: "b", Name: "B", Max: 5, Eval: func() Outcome { return Outcome{Score: 5} }},
		{Key: "c", Name: "C", Max: 0, Eval: func() Outcome { return Outcome{Value: "info"} }},
	})

	if len(c.Checks) != 3 {
		t.Fatalf("len(Checks) = %d, want 3", len(c.Checks))
	}
	if c.Checks[0].Key != "a" || c.Checks[2].Key != "c" {
		t.Errorf("checks out of order: %+v", c.Checks)
	}

	var score, max int
	for _, ch := range c.Checks {
		score += ch.Score
		max += ch.MaxScore
	}
	if c.Score() != score || c.MaxScore() != max {
		t.Errorf("category %d/%d, checks sum %d/%d", c.Score(), c.MaxScore(), score, max)
	}
	if c.Score() != 12 || c.MaxScore() != 15 {
		t.Errorf("category = %d/%d, want 12/15", c.Score(), c.MaxScore())
	}
}

func TestPercent(t *testing.T) {
	a := model.Category{Checks: []model.Check{{Score: 10, MaxScore: 20}, {Score: 0, MaxScore: 0}}}
	b := model.Category{Checks: []model.Check{{Score: 5, MaxScore: 10}}}
	if got := Percent(a, b); got != 50 {
		t.Errorf("Percent = %d, want 50", got)
	}

	informational := model.Category{Checks: []model.Check{{Score: 0, MaxScore: 0}, {Score: 0, MaxScore: 0}}}
	if got := Percent(informational); got != 0 {
		t.Errorf("Percent of zero-max pool = %d, want 0", got)
	}
	if got := Percent(); got != 0 {
		t.Errorf("Percent() = %d, want 0", got)
	}
}

func TestFlat(t *testing.T) {
	a := model.Category{Key: "a", Checks: []model.Check{{Score: 2, MaxScore: 3}}}
	r := Flat(a)
	if r.Score != 67 {
		t.Errorf("Score = %d, want 67", r.Score)
	}
	if len(r.Categories) != 1 || r.Categories[0].Key != "a" {
		t.Errorf("Categories = %+v", r.Categories)
	}
}

func TestWeighted(t *testing.T) {
	got := Weighted([]float64{100, 80, 60, 40}, []float64{0.40, 0.25, 0.20, 0.15})
	// 40 + 20 + 12 + 6
	if got != 78 {
		t.Errorf("Weighted = %d, want 78", got)
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		q, s, p int
		want    int
	}{
		{q: 100, s: 100, p: 100, want: 100},
		{q: 0, s: 0, p: 0, want: 0},
		{q: 80, s: 60, p: 80, want: 74}, // 28 + 18 + 28
		{q: 70, s: 50, p: 90, want: 71}, // 24.5 + 15 + 31.5
	}

	for _, tt := range tests {
		if got := Overall(tt.q, tt.s, tt.p); got != tt.want {
			t.Errorf("Overall(%d, %d, %d) = %d, want %d", tt.q, tt.s, tt.p, got, tt.want)
		}
	}
}
