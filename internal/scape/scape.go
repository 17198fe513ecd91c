package scape

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type Fitness float64

type Trace map[string]any

// Propagator is the view a scape needs of an agent.
type Propagator interface {
	ID() string
	Propagate(ctx context.Context, inputs []float64) ([]float64, error)
}

// Scape scores an agent. Returned fitness is always >= 0 so it can feed
// fitness-proportional selection directly.
type Scape interface {
	Name() string
	Inputs() int
	Outputs() int
	Evaluate(ctx context.Context, agent Propagator) (Fitness, Trace, error)
}

var builtins = map[string]func() Scape{
	"xor":              func() Scape { return XORScape{} },
	"regression-mimic": func() Scape { return RegressionMimicScape{} },
	"cart-pole-lite":   func() Scape { return CartPoleLiteScape{} },
}

func Resolve(name string) (Scape, error) {
	ctor, ok := builtins[strings.TrimSpace(strings.ToLower(name))]
	if !ok {
		return nil, fmt.Errorf("unknown scape: %s", name)
	}
	return ctor(), nil
}

func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type sample struct {
	in   []float64
	want []float64
}

// evaluateSamples runs every sample through the agent and converts the summed
// squared error into a fitness in (0, 1].
func evaluateSamples(ctx context.Context, name string, agent Propagator, samples []sample) (Fitness, Trace, error) {
	predictions := make([][]float64, 0, len(samples))
	var squaredErr float64
	for _, s := range samples {
		out, err := agent.Propagate(ctx, s.in)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: agent %s: %w", name, agent.ID(), err)
		}
		if len(out) != len(s.want) {
			return 0, nil, fmt.Errorf("%s requires %d outputs, got %d", name, len(s.want), len(out))
		}
		for i := range out {
			delta := out[i] - s.want[i]
			squaredErr += delta * delta
		}
		predictions = append(predictions, out)
	}
	fitness := Fitness(1.0 / (1.0 + squaredErr))
	return fitness, Trace{"sse": squaredErr, "predictions": predictions}, nil
}
