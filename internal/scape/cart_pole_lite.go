package scape

import (
	"context"
	"fmt"
	"math"
)

// CartPoleLiteScape is a 1D balancing control task. The agent sees the cart
// position and velocity and returns a force clamped to [-1, 1]. Fitness is
// the mean per-step reward, which lies in [0, 1].
type CartPoleLiteScape struct{}

var cartPoleStarts = []float64{-0.8, -0.4, 0.0, 0.4, 0.8}

const (
	cartPoleSteps = 60
	cartPoleBound = 2.0
)

func (CartPoleLiteScape) Name() string {
	return "cart-pole-lite"
}

func (CartPoleLiteScape) Inputs() int  { return 2 }
func (CartPoleLiteScape) Outputs() int { return 1 }

func (CartPoleLiteScape) Evaluate(ctx context.Context, agent Propagator) (Fitness, Trace, error) {
	totalReward := 0.0
	steps := 0

	for _, start := range cartPoleStarts {
		x, v := start, 0.0
		for step := 0; step < cartPoleSteps; step++ {
			out, err := agent.Propagate(ctx, []float64{x, v})
			if err != nil {
				return 0, nil, fmt.Errorf("cart-pole-lite: agent %s: %w", agent.ID(), err)
			}
			if len(out) != 1 {
				return 0, nil, fmt.Errorf("cart-pole-lite requires 1 output, got %d", len(out))
			}
			var reward float64
			x, v, reward = cartPoleStep(x, v, out[0])
			totalReward += reward
			steps++
			if math.Abs(x) > cartPoleBound {
				break
			}
		}
	}

	avg := totalReward / float64(steps)
	return Fitness(avg), Trace{
		"avg_reward":     avg,
		"steps_survived": steps,
		"episodes":       len(cartPoleStarts),
	}, nil
}

func cartPoleStep(x, v, force float64) (nextX, nextV, reward float64) {
	const (
		dt       = 0.1
		kPos     = 0.45
		kVel     = 0.15
		forceK   = 1.25
		maxForce = 1.0
	)
	force = math.Max(-maxForce, math.Min(maxForce, force))

	acc := forceK*force - kPos*x - kVel*v
	v += acc * dt
	x += v * dt
	reward = 1.0 - math.Min(1.0, math.Abs(x)/cartPoleBound)
	return x, v, reward
}
