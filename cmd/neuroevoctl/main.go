package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"neuroevo/internal/model"
	"neuroevo/internal/stats"
	"neuroevo/internal/storage"
	"neuroevo/pkg/neuroevo"
)

const (
	defaultDBPath       = "neuroevo.db"
	defaultArtifactsDir = "runs"
	defaultExportsDir   = "exports"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:], stdout)
	case "reset":
		return runReset(ctx, args[1:], stdout)
	case "run":
		return runRun(ctx, args[1:], stdout)
	case "runs":
		return runRuns(ctx, args[1:], stdout)
	case "population":
		return runPopulation(ctx, args[1:], stdout)
	case "fitness":
		return runFitness(ctx, args[1:], stdout)
	case "stats":
		return runStats(ctx, args[1:], stdout)
	case "export":
		return runExport(ctx, args[1:], stdout)
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// storeFlags registers the backend flags every store-backed command shares.
type storeFlags struct {
	kind   *string
	dbPath *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:   fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath: fs.String("db-path", defaultDBPath, "sqlite database path"),
	}
}

func (s storeFlags) open(ctx context.Context, artifactsDir string, logging logFlags, stderr io.Writer) (*neuroevo.Client, error) {
	logger, err := logging.logger(stderr)
	if err != nil {
		return nil, err
	}
	return neuroevo.New(ctx, neuroevo.Options{
		StoreKind:    *s.kind,
		DBPath:       *s.dbPath,
		ArtifactsDir: artifactsDir,
		Logger:       logger,
	})
}

func runInit(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	store := addStoreFlags(fs)
	writeConfig := fs.String("write-config", "", "also write a default run config YAML to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if *writeConfig != "" {
		if err := neuroevo.WriteRunRequest(*writeConfig, neuroevo.DefaultRunRequest()); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote config=%s\n", *writeConfig)
	}
	fmt.Fprintf(stdout, "initialized store=%s\n", *store.kind)
	return nil
}

func runReset(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "reset store=%s\n", *store.kind)
	return nil
}

func runRun(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	store := addStoreFlags(fs)
	logging := addLogFlags(fs)
	configPath := fs.String("config", "", "optional run config YAML path")
	artifactsDir := fs.String("artifacts-dir", defaultArtifactsDir, "directory receiving per-run artifacts")
	overrides := addRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	if err := overrides.apply(fs, &req); err != nil {
		return err
	}

	client, err := store.open(ctx, *artifactsDir, logging, os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run completed run_id=%s generations=%d final_best=%.6f goal_reached=%t\n",
		summary.RunID, len(summary.BestByGeneration), summary.FinalBestFitness, summary.GoalReached)
	fmt.Fprintf(stdout, "artifacts=%s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	store := addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs")
		return nil
	}
	for _, id := range runs {
		record, err := client.RunConfig(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "run_id=%s scape=%s topology=%v population=%d generations=%d seed=%d\n",
			record.ID, record.Scape, record.Topology, record.PopulationSize, record.Generations, record.Seed)
	}
	return nil
}

func runPopulation(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("population", flag.ContinueOnError)
	store := addStoreFlags(fs)
	populationID := fs.String("id", "", "population snapshot id")
	runID := fs.String("run-id", "", "run id (with --gen)")
	generation := fs.Int("gen", 0, "generation number (with --run-id)")
	limit := fs.Int("limit", 10, "max members to print, fittest first (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit the snapshot as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *populationID != "" && *runID != "" {
		return errors.New("use either --id or --run-id/--gen, not both")
	}
	if *populationID == "" {
		if *runID == "" || *generation <= 0 {
			return errors.New("population requires --id or --run-id with --gen")
		}
		*populationID = neuroevo.PopulationID(*runID, *generation)
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	snapshot, err := client.Population(ctx, *populationID)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(stdout, snapshot)
	}

	members := append(snapshot.Members[:0:0], snapshot.Members...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Fitness > members[j].Fitness
	})
	if *limit > 0 && len(members) > *limit {
		members = members[:*limit]
	}
	fmt.Fprintf(stdout, "population id=%s run_id=%s generation=%d size=%d topology=%v activation=%s\n",
		snapshot.ID, snapshot.RunID, snapshot.Generation, len(snapshot.Members), snapshot.Topology, snapshot.Activation)
	for i, m := range members {
		fmt.Fprintf(stdout, "rank=%d id=%s fitness=%.6f genes=%d\n", i+1, m.ID, m.Fitness, len(m.Chromosome))
	}
	return nil
}

func runFitness(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("fitness requires --run-id")
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(stdout, history)
	}
	for i, best := range history {
		fmt.Fprintf(stdout, "generation=%d best_fitness=%.6f\n", i+1, best)
	}
	return nil
}

func runStats(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit generation stats as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("stats requires --run-id")
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.GenerationStats(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(stdout, history)
	}
	writeStats(stdout, history)
	return nil
}

func writeStats(w io.Writer, history []model.GenerationStats) {
	for _, s := range history {
		fmt.Fprintf(w, "generation=%d size=%d best=%.6f mean=%.6f min=%.6f stddev=%.6f\n",
			s.Generation, s.Size, s.Best, s.Mean, s.Min, s.StdDev)
	}
	fmt.Fprintf(w, "improvement=%.6f\n", stats.Improvement(history))
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run-id", "", "run id")
	outDir := fs.String("out", defaultExportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("export requires --run-id")
	}

	client, err := store.open(ctx, defaultArtifactsDir, quietLogging(), os.Stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	dir, err := client.Export(ctx, *runID, *outDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "exported run_id=%s to=%s\n", *runID, dir)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: neuroevoctl <init|reset|run|runs|population|fitness|stats|export> [flags]", msg)
}
