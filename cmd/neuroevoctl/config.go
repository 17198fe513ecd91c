package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"neuroevo/pkg/neuroevo"
)

// runFlags mirrors RunRequest. Only flags set on the command line override the
// config file or defaults.
type runFlags struct {
	runID          *string
	scape          *string
	topology       *string
	activation     *string
	population     *int
	generations    *int
	seed           *int64
	workers        *int
	selection      *string
	tournamentSize *int
	crossover      *string
	mutation       *string
	mutationChance *float64
	mutationCoeff  *float64
	elitism        *int
	fitnessGoal    *float64
}

func addRunFlags(fs *flag.FlagSet) runFlags {
	def := neuroevo.DefaultRunRequest()
	return runFlags{
		runID:          fs.String("run-id", "", "explicit run id (optional)"),
		scape:          fs.String("scape", def.Scape, "scape name: xor|regression-mimic|cart-pole-lite"),
		topology:       fs.String("topology", formatTopology(def.Topology), "comma separated layer widths, input layer first"),
		activation:     fs.String("activation", def.Activation, "neuron activation: abs|gaussian|identity|relu|sigmoid|sin|tanh"),
		population:     fs.Int("pop", def.Population, "population size"),
		generations:    fs.Int("gens", def.Generations, "generation count"),
		seed:           fs.Int64("seed", def.Seed, "rng seed"),
		workers:        fs.Int("workers", def.Workers, "parallel fitness evaluations"),
		selection:      fs.String("selection", def.Selection, "parent selection: roulette|rank|tournament"),
		tournamentSize: fs.Int("tournament-size", 0, "tournament size for --selection tournament (0 uses default)"),
		crossover:      fs.String("crossover", def.Crossover, "crossover: uniform|single_point"),
		mutation:       fs.String("mutation", def.Mutation, "mutation: gaussian"),
		mutationChance: fs.Float64("mutation-chance", def.MutationChance, "per-gene mutation probability"),
		mutationCoeff:  fs.Float64("mutation-coeff", def.MutationCoeff, "maximum per-gene perturbation"),
		elitism:        fs.Int("elitism", def.Elitism, "fittest individuals copied unchanged into each generation"),
		fitnessGoal:    fs.Float64("fitness-goal", def.FitnessGoal, "early-stop best fitness goal (0 disables)"),
	}
}

func (f runFlags) apply(fs *flag.FlagSet, req *neuroevo.RunRequest) error {
	var applyErr error
	fs.Visit(func(fl *flag.Flag) {
		if applyErr != nil {
			return
		}
		switch fl.Name {
		case "run-id":
			req.RunID = *f.runID
		case "scape":
			req.Scape = *f.scape
		case "topology":
			topology, err := parseTopology(*f.topology)
			if err != nil {
				applyErr = err
				return
			}
			req.Topology = topology
		case "activation":
			req.Activation = *f.activation
		case "pop":
			req.Population = *f.population
		case "gens":
			req.Generations = *f.generations
		case "seed":
			req.Seed = *f.seed
		case "workers":
			req.Workers = *f.workers
		case "selection":
			req.Selection = *f.selection
		case "tournament-size":
			req.TournamentSize = *f.tournamentSize
		case "crossover":
			req.Crossover = *f.crossover
		case "mutation":
			req.Mutation = *f.mutation
		case "mutation-chance":
			req.MutationChance = *f.mutationChance
		case "mutation-coeff":
			req.MutationCoeff = *f.mutationCoeff
		case "elitism":
			req.Elitism = *f.elitism
		case "fitness-goal":
			req.FitnessGoal = *f.fitnessGoal
		}
	})
	return applyErr
}

func loadOrDefaultRunRequest(configPath string) (neuroevo.RunRequest, error) {
	if configPath == "" {
		return neuroevo.DefaultRunRequest(), nil
	}
	req, err := neuroevo.LoadRunRequest(configPath)
	if err != nil {
		return neuroevo.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}

func parseTopology(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		width, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid topology %q: %w", raw, err)
		}
		if width < 1 {
			return nil, fmt.Errorf("invalid topology %q: layer width must be >= 1", raw)
		}
		out = append(out, width)
	}
	if len(out) < 2 {
		return nil, fmt.Errorf("invalid topology %q: need at least an input and an output layer", raw)
	}
	return out, nil
}

func formatTopology(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ",")
}
