package grading

import (
	"sort"

	"github.com/Schnee09/BHEDU-sub006/internal/model"
)

// CategoryResult is the category-scheme reduction of one student's graded
// work in one class. Both fields are nil when the student has no graded
// assignment in any weighted category.
type CategoryResult struct {
	Percentage *float64
	Letter     *string
}

// CategoryAverage reduces per-assignment scores grouped by teacher-defined
// categories into an overall 0-100 percentage and letter grade.
//
// Within a category the lowest DropLowest percentages are discarded, but a
// category that holds any graded work always keeps at least one score; it
// must keep counting rather than turn into a spurious ungraded category.
// Categories with no graded assignments are excluded outright, and the
// declared weights are renormalized over the categories that remain. That
// single policy also absorbs class configurations whose weights do not sum
// to 100.
//
// A zero-weight category never contributes: the teacher declared its work as
// not counting, so a student whose only graded work sits in zero-weight
// categories stays ungraded overall rather than being scored on it.
func CategoryAverage(categories []model.AssignmentCategory, scores []model.AssignmentScore, p Policy) CategoryResult {
	byCategory := make(map[string][]float64)
	for _, s := range scores {
		if s.CategoryID == nil || s.MaxPoints <= 0 {
			continue
		}
		pct := s.PointsEarned / s.MaxPoints * 100
		byCategory[*s.CategoryID] = append(byCategory[*s.CategoryID], pct)
	}

	var weighted, total float64
	for _, cat := range categories {
		pcts := byCategory[cat.ID]
		if len(pcts) == 0 {
			continue
		}
		avg := trimmedMean(pcts, cat.DropLowest)
		weighted += cat.WeightPercent * avg
		total += cat.WeightPercent
	}
	if total == 0 {
		return CategoryResult{}
	}

	// The overall percentage is reported as computed. Rounding it first would
	// inflate values just under a letter threshold across the inclusive
	// boundary (79.999 must letter as B, not A).
	overall := weighted / total
	letter := p.Letter(overall)
	return CategoryResult{Percentage: &overall, Letter: &letter}
}

// trimmedMean drops the lowest n values and averages the rest, never
// dropping below one remaining value.
func trimmedMean(values []float64, drop int) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if drop >= len(sorted) {
		drop = len(sorted) - 1
	}
	if drop < 0 {
		drop = 0
	}
	sorted = sorted[drop:]

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}
