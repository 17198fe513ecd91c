package neuroevo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"neuroevo/internal/model"
	"neuroevo/internal/nn"
	"neuroevo/internal/storage"
)

// RunRequest is the full configuration of one evolutionary run. It decodes
// from YAML; keys left out keep the DefaultRunRequest values.
type RunRequest struct {
	RunID          string  `yaml:"run_id,omitempty"`
	Scape          string  `yaml:"scape"`
	Topology       []int   `yaml:"topology"`
	Activation     string  `yaml:"activation"`
	Population     int     `yaml:"population"`
	Generations    int     `yaml:"generations"`
	Seed           int64   `yaml:"seed"`
	Workers        int     `yaml:"workers"`
	Selection      string  `yaml:"selection"`
	TournamentSize int     `yaml:"tournament_size,omitempty"`
	Crossover      string  `yaml:"crossover"`
	Mutation       string  `yaml:"mutation"`
	MutationChance float64 `yaml:"mutation_chance"`
	MutationCoeff  float64 `yaml:"mutation_coeff"`
	Elitism        int     `yaml:"elitism"`
	FitnessGoal    float64 `yaml:"fitness_goal,omitempty"`
}

func DefaultRunRequest() RunRequest {
	return RunRequest{
		Scape:          "xor",
		Topology:       []int{2, 4, 1},
		Activation:     nn.DefaultActivation,
		Population:     50,
		Generations:    100,
		Seed:           1,
		Workers:        runtime.NumCPU(),
		Selection:      "roulette",
		Crossover:      "uniform",
		Mutation:       "gaussian",
		MutationChance: 0.01,
		MutationCoeff:  0.3,
	}
}

// withDefaults fills the fields whose zero value is never a usable setting.
// Mutation rates, seed and elitism are taken as given.
func (r RunRequest) withDefaults() RunRequest {
	def := DefaultRunRequest()
	if r.Scape == "" {
		r.Scape = def.Scape
	}
	if len(r.Topology) == 0 {
		r.Topology = def.Topology
	}
	if r.Activation == "" {
		r.Activation = def.Activation
	}
	if r.Population <= 0 {
		r.Population = def.Population
	}
	if r.Generations <= 0 {
		r.Generations = def.Generations
	}
	if r.Workers <= 0 {
		r.Workers = def.Workers
	}
	if r.Selection == "" {
		r.Selection = def.Selection
	}
	if r.Crossover == "" {
		r.Crossover = def.Crossover
	}
	if r.Mutation == "" {
		r.Mutation = def.Mutation
	}
	return r
}

func (r RunRequest) Validate() error {
	var errs []error
	if r.Population <= 0 {
		errs = append(errs, fmt.Errorf("population must be > 0, got %d", r.Population))
	}
	if r.Generations <= 0 {
		errs = append(errs, fmt.Errorf("generations must be > 0, got %d", r.Generations))
	}
	if _, err := nn.WeightCount(nn.Topology(r.Topology...)); err != nil {
		errs = append(errs, err)
	}
	if r.Elitism < 0 || r.Elitism > r.Population {
		errs = append(errs, fmt.Errorf("elitism must be in [0, %d], got %d", r.Population, r.Elitism))
	}
	if r.FitnessGoal < 0 {
		errs = append(errs, fmt.Errorf("fitness goal must be >= 0, got %f", r.FitnessGoal))
	}
	return errors.Join(errs...)
}

func (r RunRequest) record(runID string) model.RunRecord {
	return model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		Scape:           r.Scape,
		Topology:        append([]int(nil), r.Topology...),
		Activation:      r.Activation,
		PopulationSize:  r.Population,
		Generations:     r.Generations,
		Seed:            r.Seed,
		Selection:       r.Selection,
		TournamentSize:  r.TournamentSize,
		Crossover:       r.Crossover,
		Mutation:        r.Mutation,
		MutationChance:  r.MutationChance,
		MutationCoeff:   r.MutationCoeff,
		Elitism:         r.Elitism,
		FitnessGoal:     r.FitnessGoal,
	}
}

// LoadRunRequest reads a YAML run file on top of DefaultRunRequest. Unknown
// keys are rejected.
func LoadRunRequest(path string) (RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunRequest{}, err
	}
	req, err := ParseRunRequest(data)
	if err != nil {
		return RunRequest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return req, nil
}

func ParseRunRequest(data []byte) (RunRequest, error) {
	req := DefaultRunRequest()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return RunRequest{}, err
	}
	return req, nil
}

// WriteRunRequest renders req as YAML, the format LoadRunRequest reads.
func WriteRunRequest(path string, req RunRequest) error {
	data, err := yaml.Marshal(req)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
