package storage

import (
	"context"
	"testing"

	"neuroevo/internal/model"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := model.RunRecord{
		VersionedRecord: CurrentVersion(),
		ID:              "run-1",
		Scape:           "xor",
		Topology:        []int{2, 3, 1},
		PopulationSize:  4,
		Generations:     2,
		Seed:            42,
		Selection:       "roulette",
		Crossover:       "uniform",
		Mutation:        "gaussian",
		MutationChance:  0.01,
		MutationCoeff:   0.3,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	loadedRun, ok, err := store.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if loadedRun.Seed != 42 || len(loadedRun.Topology) != 3 || loadedRun.Scape != "xor" {
		t.Fatalf("unexpected run loaded: %+v", loadedRun)
	}
	ids, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(ids) != 1 || ids[0] != run.ID {
		t.Fatalf("unexpected run ids: %v", ids)
	}

	snapshot := model.PopulationSnapshot{
		VersionedRecord: CurrentVersion(),
		ID:              PopulationID(run.ID, 1),
		RunID:           run.ID,
		Generation:      1,
		Topology:        []int{1, 1},
		Activation:      "relu",
		Members: []model.Member{
			{ID: "a", Fitness: 0.5, Chromosome: []float64{0.1, -0.2}},
			{ID: "b", Fitness: 0.25, Chromosome: []float64{0.3, 0.4}},
		},
	}
	if err := store.SavePopulation(ctx, snapshot); err != nil {
		t.Fatalf("save population: %v", err)
	}
	loaded, ok, err := store.GetPopulation(ctx, snapshot.ID)
	if err != nil || !ok {
		t.Fatalf("get population: ok=%t err=%v", ok, err)
	}
	if len(loaded.Members) != 2 || loaded.Members[0].Chromosome[1] != -0.2 || loaded.Generation != 1 {
		t.Fatalf("unexpected population loaded: %+v", loaded)
	}
	if _, ok, err := store.GetPopulation(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing population: ok=%t err=%v", ok, err)
	}

	history := []float64{0.1, 0.4, 0.9}
	if err := store.SaveFitnessHistory(ctx, run.ID, history); err != nil {
		t.Fatalf("save fitness history: %v", err)
	}
	gotHistory, ok, err := store.GetFitnessHistory(ctx, run.ID)
	if err != nil || !ok || len(gotHistory) != 3 || gotHistory[2] != 0.9 {
		t.Fatalf("get fitness history: %v ok=%t err=%v", gotHistory, ok, err)
	}

	stats := []model.GenerationStats{{Generation: 1, Size: 2, Best: 0.5, Mean: 0.375, Min: 0.25, StdDev: 0.125}}
	if err := store.SaveGenerationStats(ctx, run.ID, stats); err != nil {
		t.Fatalf("save generation stats: %v", err)
	}
	gotStats, ok, err := store.GetGenerationStats(ctx, run.ID)
	if err != nil || !ok || len(gotStats) != 1 || gotStats[0].Mean != 0.375 {
		t.Fatalf("get generation stats: %+v ok=%t err=%v", gotStats, ok, err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok, err := store.GetRun(ctx, run.ID); err != nil || ok {
		t.Fatalf("expected run to be gone after reset: ok=%t err=%v", ok, err)
	}
	if _, ok, err := store.GetFitnessHistory(ctx, run.ID); err != nil || ok {
		t.Fatalf("expected history to be gone after reset: ok=%t err=%v", ok, err)
	}
}
