package evo

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

var (
	ErrEmptyPopulation  = errors.New("empty population")
	ErrChromosomeLength = errors.New("chromosome length mismatch")
	ErrInvalidFitness   = errors.New("invalid fitness")
)

// Individual is anything the engine can breed. FromChromosome is called on a
// parent and must return a fresh individual of the same kind; rng is the
// engine's source and is only used from the breeding goroutine.
type Individual[I any] interface {
	Fitness() float64
	Chromosome() []float64
	FromChromosome(rng *rand.Rand, chromosome []float64) (I, error)
}

type GeneticAlgorithm[I Individual[I]] struct {
	selection SelectionMethod
	crossover CrossoverMethod
	mutation  MutationMethod
	elitism   int
}

type Option func(*engineOptions)

type engineOptions struct {
	elitism int
}

// WithElitism carries the n fittest individuals into the next generation
// unchanged. The default is full replacement.
func WithElitism(n int) Option {
	return func(o *engineOptions) {
		o.elitism = n
	}
}

func NewGeneticAlgorithm[I Individual[I]](
	selection SelectionMethod,
	crossover CrossoverMethod,
	mutation MutationMethod,
	opts ...Option,
) (*GeneticAlgorithm[I], error) {
	if selection == nil {
		return nil, fmt.Errorf("selection method is required")
	}
	if crossover == nil {
		return nil, fmt.Errorf("crossover method is required")
	}
	if mutation == nil {
		return nil, fmt.Errorf("mutation method is required")
	}
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.elitism < 0 {
		return nil, fmt.Errorf("elitism must be >= 0, got %d", o.elitism)
	}
	return &GeneticAlgorithm[I]{
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
		elitism:   o.elitism,
	}, nil
}

func (ga *GeneticAlgorithm[I]) Elitism() int {
	return ga.elitism
}

// Evolve breeds a new population of the same size. Each slot draws two
// parents independently, crosses and mutates their chromosomes, then builds
// the child through FromChromosome.
func (ga *GeneticAlgorithm[I]) Evolve(rng *rand.Rand, population []I) ([]I, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}
	if ga.elitism > len(population) {
		return nil, fmt.Errorf("elitism %d exceeds population size %d", ga.elitism, len(population))
	}

	fitnesses := make([]float64, len(population))
	for i, individual := range population {
		fitnesses[i] = individual.Fitness()
	}

	next := make([]I, 0, len(population))
	next = append(next, elites(population, fitnesses, ga.elitism)...)

	for len(next) < len(population) {
		a, err := ga.selection.Select(rng, fitnesses)
		if err != nil {
			return nil, fmt.Errorf("select first parent: %w", err)
		}
		b, err := ga.selection.Select(rng, fitnesses)
		if err != nil {
			return nil, fmt.Errorf("select second parent: %w", err)
		}

		parentA, parentB := population[a], population[b]
		child, err := ga.crossover.Crossover(rng, parentA.Chromosome(), parentB.Chromosome())
		if err != nil {
			return nil, fmt.Errorf("crossover slot %d: %w", len(next), err)
		}
		ga.mutation.Mutate(rng, child)

		offspring, err := parentA.FromChromosome(rng, child)
		if err != nil {
			return nil, fmt.Errorf("build offspring slot %d: %w", len(next), err)
		}
		next = append(next, offspring)
	}
	return next, nil
}

func elites[I any](population []I, fitnesses []float64, n int) []I {
	if n == 0 {
		return nil
	}
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fitnesses[order[i]] > fitnesses[order[j]]
	})
	out := make([]I, n)
	for i := 0; i < n; i++ {
		out[i] = population[order[i]]
	}
	return out
}
