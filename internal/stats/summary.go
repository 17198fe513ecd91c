package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"neuroevo/internal/model"
)

// Summarize reduces one generation's fitness values. StdDev is the
// population standard deviation so a single-member generation reports 0.
func Summarize(generation int, fitnesses []float64) model.GenerationStats {
	if len(fitnesses) == 0 {
		return model.GenerationStats{Generation: generation}
	}
	mean, std := stat.PopMeanStdDev(fitnesses, nil)
	return model.GenerationStats{
		Generation: generation,
		Size:       len(fitnesses),
		Best:       floats.Max(fitnesses),
		Mean:       mean,
		Min:        floats.Min(fitnesses),
		StdDev:     std,
	}
}

// BestByGeneration extracts the per-generation best fitness series.
func BestByGeneration(history []model.GenerationStats) []float64 {
	out := make([]float64, len(history))
	for i, s := range history {
		out[i] = s.Best
	}
	return out
}

// Improvement is the gain of the final best fitness over the first one.
func Improvement(history []model.GenerationStats) float64 {
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1].Best - history[0].Best
}
