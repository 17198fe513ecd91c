package nn

import (
	"errors"
	"fmt"
	"math/rand"
)

const DefaultActivation = "relu"

var (
	ErrTopology            = errors.New("invalid topology")
	ErrInsufficientWeights = errors.New("insufficient weights")
	ErrExcessWeights       = errors.New("excess weights")
	ErrInputWidth          = errors.New("input width mismatch")
)

// LayerTopology describes one layer by its neuron count. The first entry of a
// topology is the input width.
type LayerTopology struct {
	Neurons int `json:"neurons" yaml:"neurons"`
}

// Topology builds a topology from layer widths.
func Topology(widths ...int) []LayerTopology {
	out := make([]LayerTopology, len(widths))
	for i, w := range widths {
		out[i] = LayerTopology{Neurons: w}
	}
	return out
}

// Widths is the inverse of Topology.
func Widths(topology []LayerTopology) []int {
	out := make([]int, len(topology))
	for i, layer := range topology {
		out[i] = layer.Neurons
	}
	return out
}

type Network struct {
	layers     []layer
	activation string
	fn         ActivationFunc
}

type layer struct {
	neurons []neuron
}

type neuron struct {
	bias    float64
	weights []float64
}

type Option func(*options)

type options struct {
	activation string
}

// WithActivation selects a registered activation for every neuron.
func WithActivation(name string) Option {
	return func(o *options) {
		o.activation = name
	}
}

func buildOptions(opts []Option) options {
	o := options{activation: DefaultActivation}
	for _, opt := range opts {
		opt(&o)
	}
	if o.activation == "" {
		o.activation = DefaultActivation
	}
	return o
}

// WeightCount returns the number of genes a network with the given topology
// flattens to: one bias plus one weight per input, for every neuron.
func WeightCount(topology []LayerTopology) (int, error) {
	if err := validateTopology(topology); err != nil {
		return 0, err
	}
	count := 0
	for i := 1; i < len(topology); i++ {
		count += (topology[i-1].Neurons + 1) * topology[i].Neurons
	}
	return count, nil
}

func validateTopology(topology []LayerTopology) error {
	if len(topology) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrTopology, len(topology))
	}
	for i, l := range topology {
		if l.Neurons < 1 {
			return fmt.Errorf("%w: layer %d has %d neurons", ErrTopology, i, l.Neurons)
		}
	}
	return nil
}

// Random builds a network whose biases and weights are drawn uniformly from
// [-1, 1). Draw order matches Weights: layer, neuron, bias, then weights.
func Random(rng *rand.Rand, topology []LayerTopology, opts ...Option) (*Network, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if err := validateTopology(topology); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	fn, err := GetActivation(o.activation)
	if err != nil {
		return nil, err
	}

	layers := make([]layer, 0, len(topology)-1)
	for i := 1; i < len(topology); i++ {
		in, out := topology[i-1].Neurons, topology[i].Neurons
		neurons := make([]neuron, out)
		for j := range neurons {
			neurons[j].bias = uniform(rng)
			neurons[j].weights = make([]float64, in)
			for k := range neurons[j].weights {
				neurons[j].weights[k] = uniform(rng)
			}
		}
		layers = append(layers, layer{neurons: neurons})
	}
	return &Network{layers: layers, activation: o.activation, fn: fn}, nil
}

func uniform(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// FromWeights rebuilds a network from a flat chromosome produced by Weights.
// The chromosome length must match WeightCount(topology) exactly.
func FromWeights(topology []LayerTopology, weights []float64, opts ...Option) (*Network, error) {
	want, err := WeightCount(topology)
	if err != nil {
		return nil, err
	}
	switch {
	case len(weights) < want:
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientWeights, len(weights), want)
	case len(weights) > want:
		return nil, fmt.Errorf("%w: got %d, need %d", ErrExcessWeights, len(weights), want)
	}
	o := buildOptions(opts)
	fn, err := GetActivation(o.activation)
	if err != nil {
		return nil, err
	}

	offset := 0
	next := func() float64 {
		v := weights[offset]
		offset++
		return v
	}

	layers := make([]layer, 0, len(topology)-1)
	for i := 1; i < len(topology); i++ {
		in, out := topology[i-1].Neurons, topology[i].Neurons
		neurons := make([]neuron, out)
		for j := range neurons {
			neurons[j].bias = next()
			neurons[j].weights = make([]float64, in)
			for k := range neurons[j].weights {
				neurons[j].weights[k] = next()
			}
		}
		layers = append(layers, layer{neurons: neurons})
	}
	return &Network{layers: layers, activation: o.activation, fn: fn}, nil
}

// Weights flattens the network into a chromosome.
func (n *Network) Weights() []float64 {
	out := make([]float64, 0, n.weightCount())
	for _, l := range n.layers {
		for _, nr := range l.neurons {
			out = append(out, nr.bias)
			out = append(out, nr.weights...)
		}
	}
	return out
}

func (n *Network) weightCount() int {
	count := 0
	for _, l := range n.layers {
		for _, nr := range l.neurons {
			count += 1 + len(nr.weights)
		}
	}
	return count
}

// Topology reports the layer widths, input width first.
func (n *Network) Topology() []LayerTopology {
	out := make([]LayerTopology, 0, len(n.layers)+1)
	out = append(out, LayerTopology{Neurons: n.InputWidth()})
	for _, l := range n.layers {
		out = append(out, LayerTopology{Neurons: len(l.neurons)})
	}
	return out
}

func (n *Network) InputWidth() int {
	if len(n.layers) == 0 || len(n.layers[0].neurons) == 0 {
		return 0
	}
	return len(n.layers[0].neurons[0].weights)
}

func (n *Network) Activation() string {
	return n.activation
}

// Propagate feeds inputs through every layer and returns the last layer's
// outputs.
func (n *Network) Propagate(inputs []float64) ([]float64, error) {
	if len(inputs) != n.InputWidth() {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInputWidth, len(inputs), n.InputWidth())
	}
	values := inputs
	for _, l := range n.layers {
		values = l.propagate(values, n.fn)
	}
	return values, nil
}

func (l layer) propagate(inputs []float64, fn ActivationFunc) []float64 {
	out := make([]float64, len(l.neurons))
	for i, nr := range l.neurons {
		out[i] = nr.propagate(inputs, fn)
	}
	return out
}

func (nr neuron) propagate(inputs []float64, fn ActivationFunc) float64 {
	total := nr.bias
	for i, w := range nr.weights {
		total += inputs[i] * w
	}
	return fn(total)
}
