package grading

import (
	"math"
	"testing"

	"github.com/Schnee09/BHEDU-sub006/internal/model"
)

func sp(v string) *string { return &v }

func cat(id string, weight float64, drop int) model.AssignmentCategory {
	return model.AssignmentCategory{ID: id, ClassID: "c1", Name: id, WeightPercent: weight, DropLowest: drop}
}

func score(catID string, earned, max float64) model.AssignmentScore {
	return model.AssignmentScore{CategoryID: sp(catID), PointsEarned: earned, MaxPoints: max}
}

func TestCategoryAverageDropLowest(t *testing.T) {
	cats := []model.AssignmentCategory{cat("hw", 100, 1)}
	scores := []model.AssignmentScore{
		score("hw", 60, 100),
		score("hw", 80, 100),
		score("hw", 90, 100),
	}

	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage == nil || *got.Percentage != 85 {
		t.Fatalf("Percentage = %v, want 85 (60 dropped)", got.Percentage)
	}
	if got.Letter == nil || *got.Letter != "A" {
		t.Fatalf("Letter = %v, want A", got.Letter)
	}
}

func TestCategoryAverageDropNeverEmptiesCategory(t *testing.T) {
	// dropLowest exceeds the graded count: exactly one score must remain.
	cats := []model.AssignmentCategory{cat("hw", 100, 5)}
	scores := []model.AssignmentScore{
		score("hw", 40, 100),
		score("hw", 70, 100),
	}

	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage == nil || *got.Percentage != 70 {
		t.Fatalf("Percentage = %v, want 70 (highest score retained)", got.Percentage)
	}
}

func TestCategoryAverageWeightRenormalization(t *testing.T) {
	// Only the second category has grades; its weight renormalizes to 100%.
	cats := []model.AssignmentCategory{
		cat("hw", 40, 0),
		cat("exams", 60, 0),
	}
	scores := []model.AssignmentScore{score("exams", 45, 50)}

	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage == nil || *got.Percentage != 90 {
		t.Fatalf("Percentage = %v, want 90", got.Percentage)
	}
}

func TestCategoryAverageWeightedScenario(t *testing.T) {
	// Category A: weight 40, dropLowest 1, scores 8,6,9 out of 10 -> (80+90)/2 = 85.
	// Category B: weight 60, one score 7 out of 10 -> 70.
	// Overall: 0.4*85 + 0.6*70 = 76 -> B.
	cats := []model.AssignmentCategory{
		cat("a", 40, 1),
		cat("b", 60, 0),
	}
	scores := []model.AssignmentScore{
		score("a", 8, 10),
		score("a", 6, 10),
		score("a", 9, 10),
		score("b", 7, 10),
	}

	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage == nil || *got.Percentage != 76 {
		t.Fatalf("Percentage = %v, want 76", got.Percentage)
	}
	if got.Letter == nil || *got.Letter != "B" {
		t.Fatalf("Letter = %v, want B", got.Letter)
	}
}

func TestCategoryAverageWeightsNotSummingTo100(t *testing.T) {
	cats := []model.AssignmentCategory{
		cat("a", 30, 0),
		cat("b", 50, 0),
	}
	scores := []model.AssignmentScore{
		score("a", 80, 100),
		score("b", 60, 100),
	}

	// (30*80 + 50*60) / 80 = 67.5
	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage == nil || *got.Percentage != 67.5 {
		t.Fatalf("Percentage = %v, want 67.5", got.Percentage)
	}
}

func TestCategoryAverageNoGradedWork(t *testing.T) {
	cats := []model.AssignmentCategory{cat("hw", 100, 0)}

	got := CategoryAverage(cats, nil, DefaultPolicy())
	if got.Percentage != nil || got.Letter != nil {
		t.Fatalf("expected ungraded result, got %+v", got)
	}
}

func TestCategoryAverageIgnoresUncategorizedScores(t *testing.T) {
	cats := []model.AssignmentCategory{cat("hw", 100, 0)}
	scores := []model.AssignmentScore{
		{CategoryID: nil, PointsEarned: 10, MaxPoints: 10},
		score("hw", 50, 100),
	}

	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage == nil || *got.Percentage != 50 {
		t.Fatalf("Percentage = %v, want 50", got.Percentage)
	}
}

func TestCategoryAverageOnlyZeroWeightGradedWork(t *testing.T) {
	// Zero-weight categories never count; graded work there alone leaves the
	// student ungraded overall rather than scored on excluded work.
	cats := []model.AssignmentCategory{
		cat("practice", 0, 0),
		cat("exams", 100, 0),
	}
	scores := []model.AssignmentScore{score("practice", 95, 100)}

	got := CategoryAverage(cats, scores, DefaultPolicy())
	if got.Percentage != nil || got.Letter != nil {
		t.Fatalf("expected ungraded result, got %+v", got)
	}
}

func TestLetterBoundariesInclusiveAtLowerEdge(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		pct  float64
		want string
	}{
		{80, "A"},
		{79.999, "B"},
		{65, "B"},
		{64.999, "C"},
		{50, "C"},
		{35, "D"},
		{34.999, "F"},
	}
	for _, tt := range tests {
		if got := p.Letter(tt.pct); got != tt.want {
			t.Errorf("Letter(%v) = %q, want %q", tt.pct, got, tt.want)
		}

		// The full calculator must agree: the overall percentage is lettered
		// unrounded, so a value just under a threshold never slips over it.
		cats := []model.AssignmentCategory{cat("hw", 100, 0)}
		scores := []model.AssignmentScore{score("hw", tt.pct, 100)}
		got := CategoryAverage(cats, scores, p)
		if got.Percentage == nil || math.Abs(*got.Percentage-tt.pct) > 1e-9 {
			t.Errorf("CategoryAverage(%v) percentage = %v, want %v unrounded", tt.pct, got.Percentage, tt.pct)
		}
		if got.Letter == nil || *got.Letter != tt.want {
			t.Errorf("CategoryAverage(%v) letter = %v, want %q", tt.pct, got.Letter, tt.want)
		}
	}
}
