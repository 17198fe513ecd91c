package neuroevo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"neuroevo/internal/evo"
	"neuroevo/internal/model"
	"neuroevo/internal/nn"
	"neuroevo/internal/platform"
	"neuroevo/internal/scape"
	"neuroevo/internal/stats"
	"neuroevo/internal/storage"
)

const (
	defaultArtifactsDir = "runs"
	defaultDBPath       = "neuroevo.db"
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	Logger       *slog.Logger
}

type Client struct {
	store        storage.Store
	artifactsDir string
	logger       *slog.Logger
}

type RunSummary struct {
	RunID            string
	ArtifactsDir     string
	BestByGeneration []float64
	FinalBestFitness float64
	BestAgentID      string
	GoalReached      bool
}

// New opens the configured store and initializes its schema.
func New(ctx context.Context, opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, err
	}

	return &Client{
		store:        store,
		artifactsDir: artifactsDir,
		logger:       logger,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Reset drops every stored run.
func (c *Client) Reset(ctx context.Context) error {
	return c.store.Reset(ctx)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	req = req.withDefaults()
	if err := req.Validate(); err != nil {
		return RunSummary{}, err
	}

	targetScape, err := scape.Resolve(req.Scape)
	if err != nil {
		return RunSummary{}, err
	}
	params := evo.Params{
		TournamentSize: req.TournamentSize,
		MutationChance: req.MutationChance,
		MutationCoeff:  req.MutationCoeff,
	}
	selection, err := evo.ResolveSelection(req.Selection, params)
	if err != nil {
		return RunSummary{}, err
	}
	crossover, err := evo.ResolveCrossover(req.Crossover, params)
	if err != nil {
		return RunSummary{}, err
	}
	mutation, err := evo.ResolveMutation(req.Mutation, params)
	if err != nil {
		return RunSummary{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	if _, exists, err := c.store.GetRun(ctx, runID); err != nil {
		return RunSummary{}, err
	} else if exists {
		return RunSummary{}, fmt.Errorf("run already exists: %s", runID)
	}

	runner, err := platform.NewRunner(platform.Config{
		RunID:          runID,
		Scape:          targetScape,
		Topology:       nn.Topology(req.Topology...),
		Activation:     req.Activation,
		PopulationSize: req.Population,
		Generations:    req.Generations,
		Seed:           req.Seed,
		Workers:        req.Workers,
		Selection:      selection,
		Crossover:      crossover,
		Mutation:       mutation,
		Elitism:        req.Elitism,
		FitnessGoal:    req.FitnessGoal,
		Store:          c.store,
		Logger:         c.logger,
	})
	if err != nil {
		return RunSummary{}, err
	}

	record := req.record(runID)
	if err := c.store.SaveRun(ctx, record); err != nil {
		return RunSummary{}, err
	}
	result, err := runner.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.artifactsDir, stats.RunArtifacts{
		Config: record,
		Stats:  result.Stats,
		Best:   bestAgent(len(result.Stats), record, result.Best.ID(), result.Best.Fitness(), result.Best.Chromosome()),
	})
	if err != nil {
		return RunSummary{}, err
	}

	return RunSummary{
		RunID:            runID,
		ArtifactsDir:     filepath.Clean(runDir),
		BestByGeneration: result.BestByGeneration,
		FinalBestFitness: result.Best.Fitness(),
		BestAgentID:      result.Best.ID(),
		GoalReached:      result.GoalReached,
	}, nil
}

func (c *Client) Runs(ctx context.Context) ([]string, error) {
	return c.store.ListRuns(ctx)
}

func (c *Client) RunConfig(ctx context.Context, runID string) (model.RunRecord, error) {
	if runID == "" {
		return model.RunRecord{}, errors.New("run id is required")
	}
	record, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run not found: %s", runID)
	}
	return record, nil
}

// Population loads a stored generation snapshot by its id, as produced by
// PopulationID.
func (c *Client) Population(ctx context.Context, id string) (model.PopulationSnapshot, error) {
	if id == "" {
		return model.PopulationSnapshot{}, errors.New("population id is required")
	}
	snapshot, ok, err := c.store.GetPopulation(ctx, id)
	if err != nil {
		return model.PopulationSnapshot{}, err
	}
	if !ok {
		return model.PopulationSnapshot{}, fmt.Errorf("population not found: %s", id)
	}
	return snapshot, nil
}

func PopulationID(runID string, generation int) string {
	return storage.PopulationID(runID, generation)
}

func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	if runID == "" {
		return nil, errors.New("fitness history requires run id")
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) GenerationStats(ctx context.Context, runID string) ([]model.GenerationStats, error) {
	if runID == "" {
		return nil, errors.New("generation stats requires run id")
	}
	history, ok, err := c.store.GetGenerationStats(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("generation stats not found for run id: %s", runID)
	}
	return append([]model.GenerationStats(nil), history...), nil
}

// Export rebuilds a run's artifacts from the store into outDir. The champion
// is taken from the last stored generation.
func (c *Client) Export(ctx context.Context, runID, outDir string) (string, error) {
	if outDir == "" {
		outDir = c.artifactsDir
	}
	record, err := c.RunConfig(ctx, runID)
	if err != nil {
		return "", err
	}
	history, err := c.GenerationStats(ctx, runID)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", fmt.Errorf("run %s has no generations", runID)
	}
	last := history[len(history)-1].Generation
	snapshot, err := c.Population(ctx, storage.PopulationID(runID, last))
	if err != nil {
		return "", err
	}
	members, err := platform.Restore(snapshot)
	if err != nil {
		return "", err
	}
	if len(members) == 0 {
		return "", fmt.Errorf("population %s is empty", snapshot.ID)
	}
	champion := platform.Fittest(members)

	runDir, err := stats.WriteRunArtifacts(outDir, stats.RunArtifacts{
		Config: record,
		Stats:  history,
		Best:   bestAgent(last, record, champion.ID(), champion.Fitness(), champion.Chromosome()),
	})
	if err != nil {
		return "", err
	}
	return filepath.Clean(runDir), nil
}

func bestAgent(generation int, record model.RunRecord, id string, fitness float64, chromosome []float64) stats.BestAgent {
	return stats.BestAgent{
		ID:         id,
		Generation: generation,
		Fitness:    fitness,
		Topology:   append([]int(nil), record.Topology...),
		Activation: record.Activation,
		Chromosome: chromosome,
	}
}
