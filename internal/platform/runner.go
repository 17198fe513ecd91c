package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"neuroevo/internal/agent"
	"neuroevo/internal/evo"
	"neuroevo/internal/model"
	"neuroevo/internal/nn"
	"neuroevo/internal/scape"
	"neuroevo/internal/stats"
	"neuroevo/internal/storage"
)

type Config struct {
	RunID          string
	Scape          scape.Scape
	Topology       []nn.LayerTopology
	Activation     string
	PopulationSize int
	Generations    int
	Seed           int64
	Workers        int
	Selection      evo.SelectionMethod
	Crossover      evo.CrossoverMethod
	Mutation       evo.MutationMethod
	Elitism        int
	// FitnessGoal stops the run once a generation's best reaches it. Zero
	// disables the check.
	FitnessGoal float64
	Store       storage.Store
	Logger      *slog.Logger
}

type Result struct {
	RunID            string
	BestByGeneration []float64
	Stats            []model.GenerationStats
	// Final is the last evaluated generation, scored.
	Final       []agent.Agent
	Best        agent.Agent
	GoalReached bool
	Evaluations int
}

// Runner drives a generational loop: evaluate concurrently, summarize,
// persist, then evolve. Only the runner goroutine touches the RNG.
type Runner struct {
	cfg    Config
	engine *evo.GeneticAlgorithm[agent.Agent]
	logger *slog.Logger
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.RunID == "" {
		return nil, fmt.Errorf("run id is required")
	}
	if cfg.Scape == nil {
		return nil, fmt.Errorf("scape is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0, got %d", cfg.PopulationSize)
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0, got %d", cfg.Generations)
	}
	if err := checkTopology(cfg.Scape, cfg.Topology); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Activation == "" {
		cfg.Activation = nn.DefaultActivation
	}
	if _, err := nn.GetActivation(cfg.Activation); err != nil {
		return nil, err
	}
	engine, err := evo.NewGeneticAlgorithm[agent.Agent](
		cfg.Selection,
		cfg.Crossover,
		cfg.Mutation,
		evo.WithElitism(cfg.Elitism),
	)
	if err != nil {
		return nil, err
	}
	if cfg.Elitism > cfg.PopulationSize {
		return nil, fmt.Errorf("elitism %d exceeds population size %d", cfg.Elitism, cfg.PopulationSize)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		cfg:    cfg,
		engine: engine,
		logger: logger.With("run_id", cfg.RunID, "scape", cfg.Scape.Name()),
	}, nil
}

func checkTopology(s scape.Scape, topology []nn.LayerTopology) error {
	if _, err := nn.WeightCount(topology); err != nil {
		return err
	}
	if in := topology[0].Neurons; in != s.Inputs() {
		return fmt.Errorf("%w: scape %s needs %d inputs, topology has %d", nn.ErrTopology, s.Name(), s.Inputs(), in)
	}
	if out := topology[len(topology)-1].Neurons; out != s.Outputs() {
		return fmt.Errorf("%w: scape %s needs %d outputs, topology has %d", nn.ErrTopology, s.Name(), s.Outputs(), out)
	}
	return nil
}

// Run seeds a random population and evolves it for the configured number of
// generations. Generation numbers start at 1; every generation is scored and
// persisted before it is bred.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	rng := rand.New(rand.NewSource(r.cfg.Seed))

	population := make([]agent.Agent, r.cfg.PopulationSize)
	for i := range population {
		a, err := agent.Random(rng, r.cfg.Topology, nn.WithActivation(r.cfg.Activation))
		if err != nil {
			return Result{}, err
		}
		population[i] = a
	}

	r.logger.Info("run started",
		"population", r.cfg.PopulationSize,
		"generations", r.cfg.Generations,
		"workers", r.cfg.Workers,
		"elitism", r.engine.Elitism(),
		"topology", nn.Widths(r.cfg.Topology),
		"seed", r.cfg.Seed,
	)

	result := Result{RunID: r.cfg.RunID}
	for generation := 1; generation <= r.cfg.Generations; generation++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		scored, err := r.evaluate(ctx, population)
		if err != nil {
			return Result{}, fmt.Errorf("evaluate generation %d: %w", generation, err)
		}
		result.Evaluations += len(scored)

		summary := stats.Summarize(generation, fitnesses(scored))
		result.Stats = append(result.Stats, summary)
		result.BestByGeneration = stats.BestByGeneration(result.Stats)
		result.Final = scored
		result.Best = Fittest(scored)

		if err := r.persist(ctx, generation, scored, result); err != nil {
			return Result{}, err
		}

		r.logger.Info("generation evaluated",
			"generation", generation,
			"best", summary.Best,
			"mean", summary.Mean,
			"min", summary.Min,
			"stddev", summary.StdDev,
		)

		if r.cfg.FitnessGoal > 0 && summary.Best >= r.cfg.FitnessGoal {
			result.GoalReached = true
			r.logger.Info("fitness goal reached", "generation", generation, "goal", r.cfg.FitnessGoal)
			break
		}
		if generation == r.cfg.Generations {
			break
		}

		population, err = r.engine.Evolve(rng, scored)
		if err != nil {
			return Result{}, fmt.Errorf("evolve generation %d: %w", generation, err)
		}
	}

	r.logger.Info("run finished",
		"generations", len(result.Stats),
		"best", result.Best.Fitness(),
		"evaluations", result.Evaluations,
	)
	return result, nil
}

// evaluate scores the population on a bounded worker pool. Results are
// written by index so the scored slice keeps the input order.
func (r *Runner) evaluate(ctx context.Context, population []agent.Agent) ([]agent.Agent, error) {
	scored := make([]agent.Agent, len(population))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(r.cfg.Workers)
	for i, a := range population {
		i, a := i, a
		p.Go(func(ctx context.Context) error {
			fitness, _, err := r.cfg.Scape.Evaluate(ctx, a)
			if err != nil {
				return err
			}
			scored[i] = a.WithFitness(float64(fitness))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scored, nil
}

func (r *Runner) persist(ctx context.Context, generation int, scored []agent.Agent, result Result) error {
	if r.cfg.Store == nil {
		return nil
	}
	snapshot := Snapshot(r.cfg.RunID, generation, r.cfg.Topology, r.cfg.Activation, scored)
	if err := r.cfg.Store.SavePopulation(ctx, snapshot); err != nil {
		return fmt.Errorf("save population %s: %w", snapshot.ID, err)
	}
	if err := r.cfg.Store.SaveFitnessHistory(ctx, r.cfg.RunID, result.BestByGeneration); err != nil {
		return fmt.Errorf("save fitness history: %w", err)
	}
	if err := r.cfg.Store.SaveGenerationStats(ctx, r.cfg.RunID, result.Stats); err != nil {
		return fmt.Errorf("save generation stats: %w", err)
	}
	return nil
}

// Snapshot captures a scored generation in its persisted form.
func Snapshot(runID string, generation int, topology []nn.LayerTopology, activation string, scored []agent.Agent) model.PopulationSnapshot {
	members := make([]model.Member, 0, len(scored))
	for _, a := range scored {
		members = append(members, model.Member{
			ID:         a.ID(),
			Fitness:    a.Fitness(),
			Chromosome: a.Chromosome(),
		})
	}
	return model.PopulationSnapshot{
		VersionedRecord: storage.CurrentVersion(),
		ID:              storage.PopulationID(runID, generation),
		RunID:           runID,
		Generation:      generation,
		Topology:        nn.Widths(topology),
		Activation:      activation,
		Members:         members,
	}
}

// Restore rebuilds the agents of a stored snapshot, fitness included.
func Restore(snapshot model.PopulationSnapshot) ([]agent.Agent, error) {
	topology := nn.Topology(snapshot.Topology...)
	out := make([]agent.Agent, 0, len(snapshot.Members))
	for _, m := range snapshot.Members {
		a, err := agent.FromWeights(m.ID, topology, m.Chromosome, nn.WithActivation(snapshot.Activation))
		if err != nil {
			return nil, fmt.Errorf("restore member %s: %w", m.ID, err)
		}
		out = append(out, a.WithFitness(m.Fitness))
	}
	return out, nil
}

func fitnesses(population []agent.Agent) []float64 {
	out := make([]float64, len(population))
	for i, a := range population {
		out[i] = a.Fitness()
	}
	return out
}

// Fittest returns the highest scoring agent; earlier agents win ties.
func Fittest(population []agent.Agent) agent.Agent {
	if len(population) == 0 {
		return agent.Agent{}
	}
	ranked := append([]agent.Agent(nil), population...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Fitness() > ranked[j].Fitness()
	})
	return ranked[0]
}
