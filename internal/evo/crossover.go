package evo

import (
	"fmt"
	"math/rand"
)

// CrossoverMethod combines two parent chromosomes into one child. Every child
// gene is copied from the same index of one of the parents.
type CrossoverMethod interface {
	Name() string
	Crossover(rng *rand.Rand, a, b []float64) ([]float64, error)
}

// UniformCrossover flips a fair coin per gene.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Crossover(rng *rand.Rand, a, b []float64) ([]float64, error) {
	if err := checkParents(rng, a, b); err != nil {
		return nil, err
	}
	child := make([]float64, len(a))
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child, nil
}

// SinglePointCrossover takes a prefix from the first parent and the
// remaining suffix from the second.
type SinglePointCrossover struct{}

func (SinglePointCrossover) Name() string {
	return "single_point"
}

func (SinglePointCrossover) Crossover(rng *rand.Rand, a, b []float64) ([]float64, error) {
	if err := checkParents(rng, a, b); err != nil {
		return nil, err
	}
	point := rng.Intn(len(a) + 1)
	child := make([]float64, len(a))
	copy(child[:point], a[:point])
	copy(child[point:], b[point:])
	return child, nil
}

func checkParents(rng *rand.Rand, a, b []float64) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d vs %d", ErrChromosomeLength, len(a), len(b))
	}
	return nil
}
