package evo

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SelectionMethod picks a parent index from a population's fitness values.
type SelectionMethod interface {
	Name() string
	Select(rng *rand.Rand, fitnesses []float64) (int, error)
}

// RouletteWheelSelection picks each individual with probability proportional
// to its share of the total fitness.
type RouletteWheelSelection struct{}

func (RouletteWheelSelection) Name() string {
	return "roulette"
}

func (RouletteWheelSelection) Select(rng *rand.Rand, fitnesses []float64) (int, error) {
	if rng == nil {
		return 0, fmt.Errorf("random source is required")
	}
	if len(fitnesses) == 0 {
		return 0, ErrEmptyPopulation
	}
	total := 0.0
	for i, f := range fitnesses {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return 0, fmt.Errorf("%w: individual %d has fitness %v", ErrInvalidFitness, i, f)
		}
		total += f
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: all fitness values are zero", ErrInvalidFitness)
	}
	if math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: fitness total overflows", ErrInvalidFitness)
	}
	return spin(rng, fitnesses, total), nil
}

// spin draws once in [0, total) and returns the first index whose cumulative
// weight exceeds the draw. Weights must be non-negative with a positive sum.
func spin(rng *rand.Rand, weights []float64, total float64) int {
	draw := rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		cumulative += w
		last = i
		if cumulative > draw {
			return i
		}
	}
	// Rounding can leave the draw at the very top of the wheel.
	return last
}

// RankSelection weights individuals by fitness rank instead of raw fitness:
// the worst gets weight 1 and the best gets weight n.
type RankSelection struct{}

func (RankSelection) Name() string {
	return "rank"
}

func (RankSelection) Select(rng *rand.Rand, fitnesses []float64) (int, error) {
	if rng == nil {
		return 0, fmt.Errorf("random source is required")
	}
	if len(fitnesses) == 0 {
		return 0, ErrEmptyPopulation
	}
	for i, f := range fitnesses {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: individual %d has fitness %v", ErrInvalidFitness, i, f)
		}
	}

	order := make([]int, len(fitnesses))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fitnesses[order[i]] < fitnesses[order[j]]
	})
	ranks := make([]float64, len(fitnesses))
	for rank, idx := range order {
		ranks[idx] = float64(rank + 1)
	}
	n := float64(len(fitnesses))
	return spin(rng, ranks, n*(n+1)/2), nil
}

// TournamentSelection samples Size individuals with replacement and returns
// the fittest of them. Earlier draws win ties.
type TournamentSelection struct {
	Size int
}

func (TournamentSelection) Name() string {
	return "tournament"
}

func (s TournamentSelection) Select(rng *rand.Rand, fitnesses []float64) (int, error) {
	if rng == nil {
		return 0, fmt.Errorf("random source is required")
	}
	if len(fitnesses) == 0 {
		return 0, ErrEmptyPopulation
	}
	for i, f := range fitnesses {
		if math.IsNaN(f) {
			return 0, fmt.Errorf("%w: individual %d has fitness NaN", ErrInvalidFitness, i)
		}
	}
	size := s.Size
	if size <= 0 {
		size = 3
	}

	best := rng.Intn(len(fitnesses))
	for i := 1; i < size; i++ {
		candidate := rng.Intn(len(fitnesses))
		if fitnesses[candidate] > fitnesses[best] {
			best = candidate
		}
	}
	return best, nil
}
