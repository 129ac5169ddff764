package grading

import (
	"math"

	"github.com/Schnee09/BHEDU-sub006/internal/model"
)

// ComponentAverage reduces a student's component scores for one
// subject/semester into a single 0-10 average.
//
// Weights are renormalized to the components that actually have a score:
// average = sum(w_i * s_i) / sum(w_i) over present components. With a single
// present component the result is that score unchanged. Missing components
// are an expected state while grading is in progress, so no error is raised;
// nil means nothing is graded yet and must never be read as zero.
func ComponentAverage(scores map[model.ComponentType]*float64, p Policy) *float64 {
	var weighted, total float64
	for component, weight := range p.ComponentWeights {
		score := scores[component]
		if score == nil {
			continue
		}
		weighted += weight * *score
		total += weight
	}
	if total == 0 {
		return nil
	}

	avg := RoundHalfUp1(weighted / total)
	return &avg
}

// RoundHalfUp1 rounds to one decimal place, halves away from zero upward.
func RoundHalfUp1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
