package evo

import (
	"errors"
	"math/rand"
	"testing"
)

func TestCrossoverGeneProvenance(t *testing.T) {
	a := make([]float64, 100)
	b := make([]float64, 100)
	for i := range a {
		a[i] = float64(i)
		b[i] = float64(-i - 1)
	}
	rng := rand.New(rand.NewSource(13))

	for _, method := range []CrossoverMethod{UniformCrossover{}, SinglePointCrossover{}} {
		t.Run(method.Name(), func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				child, err := method.Crossover(rng, a, b)
				if err != nil {
					t.Fatalf("crossover: %v", err)
				}
				if len(child) != len(a) {
					t.Fatalf("unexpected child length: %d", len(child))
				}
				for i, gene := range child {
					if gene != a[i] && gene != b[i] {
						t.Fatalf("gene %d=%f came from neither parent", i, gene)
					}
				}
			}
		})
	}
}

func TestUniformCrossoverMixesParents(t *testing.T) {
	a := make([]float64, 1000)
	b := make([]float64, 1000)
	for i := range b {
		b[i] = 1
	}
	child, err := UniformCrossover{}.Crossover(rand.New(rand.NewSource(2)), a, b)
	if err != nil {
		t.Fatalf("crossover: %v", err)
	}
	fromB := 0
	for _, gene := range child {
		if gene == 1 {
			fromB++
		}
	}
	if fromB < 400 || fromB > 600 {
		t.Fatalf("expected roughly half of genes from each parent, got %d/1000 from b", fromB)
	}
}

func TestCrossoverLengthMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, method := range []CrossoverMethod{UniformCrossover{}, SinglePointCrossover{}} {
		if _, err := method.Crossover(rng, []float64{1, 2}, []float64{1}); !errors.Is(err, ErrChromosomeLength) {
			t.Fatalf("%s: expected ErrChromosomeLength, got: %v", method.Name(), err)
		}
	}
}

func TestGaussianMutationZeroChanceIsNoop(t *testing.T) {
	m, err := NewGaussianMutation(0, 5)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	chromosome := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	m.Mutate(rand.New(rand.NewSource(4)), chromosome)
	for i, gene := range chromosome {
		if gene != float64(i+1) {
			t.Fatalf("gene %d changed: %f", i, gene)
		}
	}
}

func TestGaussianMutationFullChancePerturbsEveryGene(t *testing.T) {
	m, err := NewGaussianMutation(1, 0.5)
	if err != nil {
		t.Fatalf("new mutation: %v", err)
	}
	original := []float64{1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0}
	chromosome := append([]float64(nil), original...)
	m.Mutate(rand.New(rand.NewSource(8)), chromosome)
	for i := range chromosome {
		delta := chromosome[i] - original[i]
		if delta == 0 {
			t.Fatalf("gene %d unchanged", i)
		}
		if delta < -0.5 || delta >= 0.5 {
			t.Fatalf("gene %d delta %f outside [-coeff, coeff)", i, delta)
		}
	}
}

func TestGaussianMutationIsReproducible(t *testing.T) {
	m := GaussianMutation{Chance: 0.5, Coeff: 0.5}
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{1, 2, 3, 4, 5}
	m.Mutate(rand.New(rand.NewSource(42)), a)
	m.Mutate(rand.New(rand.NewSource(42)), b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("gene %d differs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestNewGaussianMutationValidation(t *testing.T) {
	tests := []struct {
		chance, coeff float64
	}{
		{chance: -0.1, coeff: 1},
		{chance: 1.1, coeff: 1},
		{chance: 0.5, coeff: -1},
	}
	for _, tc := range tests {
		if _, err := NewGaussianMutation(tc.chance, tc.coeff); err == nil {
			t.Fatalf("expected error for chance=%f coeff=%f", tc.chance, tc.coeff)
		}
	}
}
