package grading

import (
	"github.com/Schnee09/BHEDU-sub006/internal/config"
	"github.com/Schnee09/BHEDU-sub006/internal/model"
)

// Policy carries every tunable of the grading engine. It is passed into the
// calculators explicitly so tests and deployments can inject alternative
// policies without touching package state.
type Policy struct {
	// ComponentWeights maps evaluation types to their weight. Components
	// absent from the map never contribute.
	ComponentWeights map[model.ComponentType]float64

	// LetterBounds are inclusive lower bounds on the 0-100 scale.
	LetterBounds LetterBounds

	// ConductBounds are inclusive lower bounds on the 0-10 overall average.
	ConductBounds ConductBounds
}

type LetterBounds struct {
	A float64
	B float64
	C float64
	D float64
}

type ConductBounds struct {
	Good    float64
	Fair    float64
	Average float64
}

// Conduct grade labels, in the qualitative scale used on Vietnamese report
// cards.
const (
	ConductGood    = "Tốt"
	ConductFair    = "Khá"
	ConductAverage = "Trung bình"
	ConductWeak    = "Yếu"
)

// DefaultPolicy is the current grading policy: midterm and final weighted
// equally. The legacy scheme additionally weighted oral, fifteen-minute and
// one-period components (1/1/2); deployments still on it enable those
// weights through the grading config section.
func DefaultPolicy() Policy {
	return Policy{
		ComponentWeights: map[model.ComponentType]float64{
			model.ComponentMidterm: 0.5,
			model.ComponentFinal:   0.5,
		},
		LetterBounds:  LetterBounds{A: 80, B: 65, C: 50, D: 35},
		ConductBounds: ConductBounds{Good: 8.0, Fair: 6.5, Average: 5.0},
	}
}

// FromConfig overlays config overrides onto the default policy.
func FromConfig(cfg config.GradingConfig) Policy {
	p := DefaultPolicy()

	if len(cfg.ComponentWeights) > 0 {
		weights := make(map[model.ComponentType]float64, len(cfg.ComponentWeights))
		for name, w := range cfg.ComponentWeights {
			weights[model.ComponentType(name)] = w
		}
		p.ComponentWeights = weights
	}
	if cfg.LetterBounds != nil {
		p.LetterBounds = LetterBounds{
			A: cfg.LetterBounds.A,
			B: cfg.LetterBounds.B,
			C: cfg.LetterBounds.C,
			D: cfg.LetterBounds.D,
		}
	}
	if cfg.ConductBounds != nil {
		p.ConductBounds = ConductBounds{
			Good:    cfg.ConductBounds.Good,
			Fair:    cfg.ConductBounds.Fair,
			Average: cfg.ConductBounds.Average,
		}
	}

	return p
}

// Letter maps a 0-100 percentage to a letter grade. Bounds are inclusive at
// the lower edge.
func (p Policy) Letter(percentage float64) string {
	switch {
	case percentage >= p.LetterBounds.A:
		return "A"
	case percentage >= p.LetterBounds.B:
		return "B"
	case percentage >= p.LetterBounds.C:
		return "C"
	case percentage >= p.LetterBounds.D:
		return "D"
	default:
		return "F"
	}
}

// Conduct maps a 0-10 overall average to the qualitative conduct grade.
func (p Policy) Conduct(average float64) string {
	switch {
	case average >= p.ConductBounds.Good:
		return ConductGood
	case average >= p.ConductBounds.Fair:
		return ConductFair
	case average >= p.ConductBounds.Average:
		return ConductAverage
	default:
		return ConductWeak
	}
}
