package evo

import (
	"errors"
	"math/rand"
	"testing"
)

type testIndividual struct {
	fitness    float64
	chromosome []float64
}

func (t testIndividual) Fitness() float64 {
	return t.fitness
}

func (t testIndividual) Chromosome() []float64 {
	return t.chromosome
}

func (t testIndividual) FromChromosome(_ *rand.Rand, chromosome []float64) (testIndividual, error) {
	return testIndividual{chromosome: chromosome}, nil
}

func newTestPopulation() []testIndividual {
	return []testIndividual{
		{fitness: 2, chromosome: []float64{0, 0, 0}},
		{fitness: 1, chromosome: []float64{1, 1, 2}},
		{fitness: 4, chromosome: []float64{1, 2, 1}},
		{fitness: 3, chromosome: []float64{1, 2, 4}},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *GeneticAlgorithm[testIndividual] {
	t.Helper()
	mutation, err := NewGaussianMutation(0.5, 0.5)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	ga, err := NewGeneticAlgorithm[testIndividual](RouletteWheelSelection{}, UniformCrossover{}, mutation, opts...)
	if err != nil {
		t.Fatalf("new genetic algorithm: %v", err)
	}
	return ga
}

func TestEvolvePreservesPopulationAndChromosomeSize(t *testing.T) {
	ga := newTestEngine(t)
	rng := rand.New(rand.NewSource(42))
	population := newTestPopulation()

	for gen := 0; gen < 10; gen++ {
		next, err := ga.Evolve(rng, population)
		if err != nil {
			t.Fatalf("evolve generation %d: %v", gen, err)
		}
		if len(next) != len(population) {
			t.Fatalf("population size changed: got=%d want=%d", len(next), len(population))
		}
		for i, individual := range next {
			if len(individual.Chromosome()) != 3 {
				t.Fatalf("individual %d chromosome length: %d", i, len(individual.Chromosome()))
			}
		}
		for i := range next {
			next[i].fitness = float64(i + 1)
		}
		population = next
	}
}

func TestEvolveIsDeterministicForSeed(t *testing.T) {
	ga := newTestEngine(t)
	a, err := ga.Evolve(rand.New(rand.NewSource(7)), newTestPopulation())
	if err != nil {
		t.Fatalf("evolve a: %v", err)
	}
	b, err := ga.Evolve(rand.New(rand.NewSource(7)), newTestPopulation())
	if err != nil {
		t.Fatalf("evolve b: %v", err)
	}
	for i := range a {
		for j := range a[i].chromosome {
			if a[i].chromosome[j] != b[i].chromosome[j] {
				t.Fatalf("individual %d gene %d differs: %f vs %f", i, j, a[i].chromosome[j], b[i].chromosome[j])
			}
		}
	}
}

func TestEvolveDoesNotTouchParents(t *testing.T) {
	ga := newTestEngine(t)
	population := newTestPopulation()
	if _, err := ga.Evolve(rand.New(rand.NewSource(3)), population); err != nil {
		t.Fatalf("evolve: %v", err)
	}
	want := newTestPopulation()
	for i := range want {
		for j := range want[i].chromosome {
			if population[i].chromosome[j] != want[i].chromosome[j] {
				t.Fatalf("parent %d gene %d mutated", i, j)
			}
		}
	}
}

func TestEvolveEmptyPopulation(t *testing.T) {
	ga := newTestEngine(t)
	if _, err := ga.Evolve(rand.New(rand.NewSource(1)), nil); !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("expected ErrEmptyPopulation, got: %v", err)
	}
}

func TestEvolvePropagatesStrategyErrors(t *testing.T) {
	ga := newTestEngine(t)

	zero := []testIndividual{{chromosome: []float64{1}}, {chromosome: []float64{2}}}
	if _, err := ga.Evolve(rand.New(rand.NewSource(1)), zero); !errors.Is(err, ErrInvalidFitness) {
		t.Fatalf("expected ErrInvalidFitness, got: %v", err)
	}

	ragged := []testIndividual{
		{fitness: 1, chromosome: []float64{1, 2}},
		{fitness: 1, chromosome: []float64{1}},
	}
	var err error
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20 && err == nil; i++ {
		_, err = ga.Evolve(rng, ragged)
	}
	if !errors.Is(err, ErrChromosomeLength) {
		t.Fatalf("expected ErrChromosomeLength, got: %v", err)
	}
}

func TestEvolveWithElitismKeepsBest(t *testing.T) {
	ga := newTestEngine(t, WithElitism(2))
	population := newTestPopulation()

	next, err := ga.Evolve(rand.New(rand.NewSource(5)), population)
	if err != nil {
		t.Fatalf("evolve: %v", err)
	}
	if len(next) != len(population) {
		t.Fatalf("unexpected size: %d", len(next))
	}
	if next[0].fitness != 4 || next[1].fitness != 3 {
		t.Fatalf("expected elites with fitness 4 and 3, got %f and %f", next[0].fitness, next[1].fitness)
	}

	tooMany := newTestEngine(t, WithElitism(5))
	if _, err := tooMany.Evolve(rand.New(rand.NewSource(5)), population); err == nil {
		t.Fatal("expected elitism size error")
	}
}

func TestNewGeneticAlgorithmValidation(t *testing.T) {
	mutation := GaussianMutation{Chance: 0.1, Coeff: 0.1}
	if _, err := NewGeneticAlgorithm[testIndividual](nil, UniformCrossover{}, mutation); err == nil {
		t.Fatal("expected missing selection error")
	}
	if _, err := NewGeneticAlgorithm[testIndividual](RouletteWheelSelection{}, nil, mutation); err == nil {
		t.Fatal("expected missing crossover error")
	}
	if _, err := NewGeneticAlgorithm[testIndividual](RouletteWheelSelection{}, UniformCrossover{}, nil); err == nil {
		t.Fatal("expected missing mutation error")
	}
	if _, err := NewGeneticAlgorithm[testIndividual](RouletteWheelSelection{}, UniformCrossover{}, mutation, WithElitism(-1)); err == nil {
		t.Fatal("expected negative elitism error")
	}
}
