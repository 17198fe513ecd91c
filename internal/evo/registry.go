package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrStrategyExists   = errors.New("strategy already registered")
	ErrStrategyNotFound = errors.New("strategy not found")
)

// Params carries the tunables strategy constructors may read. Unused fields
// are ignored by strategies that do not need them.
type Params struct {
	TournamentSize int
	MutationChance float64
	MutationCoeff  float64
}

type (
	SelectionFactory func(Params) (SelectionMethod, error)
	CrossoverFactory func(Params) (CrossoverMethod, error)
	MutationFactory  func(Params) (MutationMethod, error)
)

type registry[F any] struct {
	kind string
	mu   sync.RWMutex
	m    map[string]F
}

func newRegistry[F any](kind string) *registry[F] {
	return &registry[F]{kind: kind, m: make(map[string]F)}
}

func (r *registry[F]) register(name string, factory F) error {
	if name == "" {
		return fmt.Errorf("%s name is required", r.kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[name]; exists {
		return fmt.Errorf("%w: %s %s", ErrStrategyExists, r.kind, name)
	}
	r.m[name] = factory
	return nil
}

func (r *registry[F]) get(name string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.m[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s %s", ErrStrategyNotFound, r.kind, name)
	}
	return factory, nil
}

func (r *registry[F]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	selections = newRegistry[SelectionFactory]("selection")
	crossovers = newRegistry[CrossoverFactory]("crossover")
	mutations  = newRegistry[MutationFactory]("mutation")
)

func init() {
	initializeBuiltInStrategies()
}

func initializeBuiltInStrategies() {
	mustRegister(RegisterSelection("roulette", func(Params) (SelectionMethod, error) {
		return RouletteWheelSelection{}, nil
	}))
	mustRegister(RegisterSelection("rank", func(Params) (SelectionMethod, error) {
		return RankSelection{}, nil
	}))
	mustRegister(RegisterSelection("tournament", func(p Params) (SelectionMethod, error) {
		if p.TournamentSize < 0 {
			return nil, fmt.Errorf("tournament size must be >= 0, got %d", p.TournamentSize)
		}
		return TournamentSelection{Size: p.TournamentSize}, nil
	}))
	mustRegister(RegisterCrossover("uniform", func(Params) (CrossoverMethod, error) {
		return UniformCrossover{}, nil
	}))
	mustRegister(RegisterCrossover("single_point", func(Params) (CrossoverMethod, error) {
		return SinglePointCrossover{}, nil
	}))
	mustRegister(RegisterMutation("gaussian", func(p Params) (MutationMethod, error) {
		m, err := NewGaussianMutation(p.MutationChance, p.MutationCoeff)
		if err != nil {
			return nil, err
		}
		return m, nil
	}))
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

func RegisterSelection(name string, factory SelectionFactory) error {
	if factory == nil {
		return errors.New("selection factory is required")
	}
	return selections.register(name, factory)
}

func RegisterCrossover(name string, factory CrossoverFactory) error {
	if factory == nil {
		return errors.New("crossover factory is required")
	}
	return crossovers.register(name, factory)
}

func RegisterMutation(name string, factory MutationFactory) error {
	if factory == nil {
		return errors.New("mutation factory is required")
	}
	return mutations.register(name, factory)
}

func ResolveSelection(name string, params Params) (SelectionMethod, error) {
	factory, err := selections.get(name)
	if err != nil {
		return nil, err
	}
	return factory(params)
}

func ResolveCrossover(name string, params Params) (CrossoverMethod, error) {
	factory, err := crossovers.get(name)
	if err != nil {
		return nil, err
	}
	return factory(params)
}

func ResolveMutation(name string, params Params) (MutationMethod, error) {
	factory, err := mutations.get(name)
	if err != nil {
		return nil, err
	}
	return factory(params)
}

func ListSelections() []string { return selections.names() }
func ListCrossovers() []string { return crossovers.names() }
func ListMutations() []string  { return mutations.names() }

func resetStrategyRegistryForTests() {
	for _, r := range []interface{ reset() }{selections, crossovers, mutations} {
		r.reset()
	}
	initializeBuiltInStrategies()
}

func (r *registry[F]) reset() {
	r.mu.Lock()
	r.m = make(map[string]F)
	r.mu.Unlock()
}
