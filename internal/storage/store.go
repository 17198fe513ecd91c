package storage

import (
	"context"
	"fmt"

	"neuroevo/internal/model"
)

// Store persists runs, scored population snapshots and per-generation
// statistics. Get methods report absence through the bool result.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]string, error)
	SavePopulation(ctx context.Context, population model.PopulationSnapshot) error
	GetPopulation(ctx context.Context, id string) (model.PopulationSnapshot, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationStats(ctx context.Context, runID string, stats []model.GenerationStats) error
	GetGenerationStats(ctx context.Context, runID string) ([]model.GenerationStats, bool, error)
}

// PopulationID names the snapshot of a run's generation.
func PopulationID(runID string, generation int) string {
	return fmt.Sprintf("%s/gen-%d", runID, generation)
}
