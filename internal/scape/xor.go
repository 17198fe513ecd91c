package scape

import "context"

type XORScape struct{}

func (XORScape) Name() string {
	return "xor"
}

func (XORScape) Inputs() int  { return 2 }
func (XORScape) Outputs() int { return 1 }

func (XORScape) Evaluate(ctx context.Context, agent Propagator) (Fitness, Trace, error) {
	return evaluateSamples(ctx, "xor", agent, []sample{
		{in: []float64{0, 0}, want: []float64{0}},
		{in: []float64{0, 1}, want: []float64{1}},
		{in: []float64{1, 0}, want: []float64{1}},
		{in: []float64{1, 1}, want: []float64{0}},
	})
}
