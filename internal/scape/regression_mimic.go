package scape

import (
	"context"
	"math"
)

const regressionSamples = 16

// RegressionMimicScape scores how closely an agent follows sin(x) on an even
// grid over [0, pi].
type RegressionMimicScape struct{}

func (RegressionMimicScape) Name() string {
	return "regression-mimic"
}

func (RegressionMimicScape) Inputs() int  { return 1 }
func (RegressionMimicScape) Outputs() int { return 1 }

func (RegressionMimicScape) Evaluate(ctx context.Context, agent Propagator) (Fitness, Trace, error) {
	samples := make([]sample, regressionSamples)
	for i := range samples {
		x := math.Pi * float64(i) / float64(regressionSamples-1)
		samples[i] = sample{in: []float64{x}, want: []float64{math.Sin(x)}}
	}
	return evaluateSamples(ctx, "regression-mimic", agent, samples)
}
