package evo

import (
	"fmt"
	"math"
	"math/rand"
)

// MutationMethod perturbs a chromosome in place.
type MutationMethod interface {
	Name() string
	Mutate(rng *rand.Rand, chromosome []float64)
}

// GaussianMutation perturbs each gene with probability Chance by a value drawn
// uniformly from [-Coeff, Coeff). The name follows the usual convention for
// this operator; the perturbation itself is not normally distributed.
type GaussianMutation struct {
	Chance float64
	Coeff  float64
}

func NewGaussianMutation(chance, coeff float64) (GaussianMutation, error) {
	if math.IsNaN(chance) || chance < 0 || chance > 1 {
		return GaussianMutation{}, fmt.Errorf("mutation chance must be in [0, 1], got %v", chance)
	}
	if math.IsNaN(coeff) || math.IsInf(coeff, 0) || coeff < 0 {
		return GaussianMutation{}, fmt.Errorf("mutation coefficient must be finite and >= 0, got %v", coeff)
	}
	return GaussianMutation{Chance: chance, Coeff: coeff}, nil
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

// Mutate consumes one draw per gene for the chance test, plus a sign draw and
// a magnitude draw for every gene that mutates.
func (m GaussianMutation) Mutate(rng *rand.Rand, chromosome []float64) {
	for i := range chromosome {
		if rng.Float64() >= m.Chance {
			continue
		}
		sign := 1.0
		if rng.Intn(2) == 0 {
			sign = -1.0
		}
		chromosome[i] += sign * m.Coeff * rng.Float64()
	}
}
