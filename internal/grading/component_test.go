package grading

import (
	"testing"

	"github.com/Schnee09/BHEDU-sub006/internal/model"
)

func fp(v float64) *float64 { return &v }

func TestComponentAverageMidtermAndFinal(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name    string
		midterm *float64
		final   *float64
		want    *float64
	}{
		{"both present", fp(7.0), fp(9.0), fp(8.0)},
		{"rounds half up", fp(7.0), fp(8.5), fp(7.8)}, // 7.75 -> 7.8
		{"only midterm", fp(6.5), nil, fp(6.5)},
		{"only final", nil, fp(4.0), fp(4.0)},
		{"neither", nil, nil, nil},
		{"explicit zero counts", fp(0), fp(10), fp(5.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := map[model.ComponentType]*float64{
				model.ComponentMidterm: tt.midterm,
				model.ComponentFinal:   tt.final,
			}
			got := ComponentAverage(scores, p)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ComponentAverage = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Fatalf("ComponentAverage = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestComponentAverageLegacyWeights(t *testing.T) {
	p := DefaultPolicy()
	p.ComponentWeights = map[model.ComponentType]float64{
		model.ComponentOral:       1,
		model.ComponentFifteenMin: 1,
		model.ComponentOnePeriod:  2,
		model.ComponentMidterm:    2,
		model.ComponentFinal:      3,
	}

	scores := map[model.ComponentType]*float64{
		model.ComponentOral:      fp(8),
		model.ComponentOnePeriod: fp(6),
		model.ComponentFinal:     fp(9),
	}
	// (1*8 + 2*6 + 3*9) / 6 = 47/6 = 7.833... -> 7.8
	got := ComponentAverage(scores, p)
	if got == nil || *got != 7.8 {
		t.Fatalf("ComponentAverage = %v, want 7.8", got)
	}
}

func TestComponentAverageIgnoresUnweightedComponents(t *testing.T) {
	p := DefaultPolicy() // midterm/final only

	scores := map[model.ComponentType]*float64{
		model.ComponentOral:    fp(2.0),
		model.ComponentMidterm: fp(8.0),
	}
	got := ComponentAverage(scores, p)
	if got == nil || *got != 8.0 {
		t.Fatalf("ComponentAverage = %v, want 8.0 (oral carries no weight)", got)
	}
}

func TestRoundHalfUp1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{7.75, 7.8},
		{7.74, 7.7},
		{7.849999, 7.8},
		{0.05, 0.1},
		{10, 10},
	}
	for _, tt := range tests {
		if got := RoundHalfUp1(tt.in); got != tt.want {
			t.Errorf("RoundHalfUp1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConductThresholds(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		avg  float64
		want string
	}{
		{8.0, ConductGood},
		{9.5, ConductGood},
		{7.9, ConductFair},
		{6.5, ConductFair},
		{6.4, ConductAverage},
		{5.0, ConductAverage},
		{4.9, ConductWeak},
		{0, ConductWeak},
	}
	for _, tt := range tests {
		if got := p.Conduct(tt.avg); got != tt.want {
			t.Errorf("Conduct(%v) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}
