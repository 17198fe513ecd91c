package agent

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"neuroevo/internal/nn"
)

// Agent is a network-backed individual. Agents are values: WithFitness
// returns a scored copy and the network itself is never mutated, so an agent
// may be evaluated from several goroutines at once.
type Agent struct {
	id         string
	topology   []nn.LayerTopology
	activation string
	network    *nn.Network
	fitness    float64
}

func Random(rng *rand.Rand, topology []nn.LayerTopology, opts ...nn.Option) (Agent, error) {
	network, err := nn.Random(rng, topology, opts...)
	if err != nil {
		return Agent{}, err
	}
	return newAgent(newID(rng), network), nil
}

// newID draws a version 4 id from rng so a seeded run names its agents the
// same way every time.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// FromWeights builds an unscored agent from a stored chromosome.
func FromWeights(id string, topology []nn.LayerTopology, chromosome []float64, opts ...nn.Option) (Agent, error) {
	network, err := nn.FromWeights(topology, chromosome, opts...)
	if err != nil {
		return Agent{}, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	return newAgent(id, network), nil
}

func newAgent(id string, network *nn.Network) Agent {
	return Agent{
		id:         id,
		topology:   network.Topology(),
		activation: network.Activation(),
		network:    network,
	}
}

func (a Agent) ID() string {
	return a.id
}

func (a Agent) Fitness() float64 {
	return a.fitness
}

func (a Agent) Topology() []nn.LayerTopology {
	return append([]nn.LayerTopology(nil), a.topology...)
}

func (a Agent) Chromosome() []float64 {
	if a.network == nil {
		return nil
	}
	return a.network.Weights()
}

// FromChromosome builds an unscored offspring sharing this agent's topology
// and activation. Its id is drawn from rng.
func (a Agent) FromChromosome(rng *rand.Rand, chromosome []float64) (Agent, error) {
	if a.network == nil {
		return Agent{}, fmt.Errorf("agent %s has no network", a.id)
	}
	if rng == nil {
		return Agent{}, fmt.Errorf("random source is required")
	}
	network, err := nn.FromWeights(a.topology, chromosome, nn.WithActivation(a.activation))
	if err != nil {
		return Agent{}, err
	}
	return newAgent(newID(rng), network), nil
}

func (a Agent) WithFitness(fitness float64) Agent {
	a.fitness = fitness
	return a
}

func (a Agent) Propagate(ctx context.Context, inputs []float64) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.network == nil {
		return nil, fmt.Errorf("agent %s has no network", a.id)
	}
	return a.network.Propagate(inputs)
}
