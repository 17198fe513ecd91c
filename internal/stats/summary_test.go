package stats

import (
	"math"
	"testing"

	"neuroevo/internal/model"
)

func TestSummarize(t *testing.T) {
	got := Summarize(3, []float64{2, 1, 4, 3})
	if got.Generation != 3 || got.Size != 4 {
		t.Fatalf("unexpected shape: %+v", got)
	}
	if got.Best != 4 || got.Min != 1 || got.Mean != 2.5 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if want := math.Sqrt(1.25); math.Abs(got.StdDev-want) > 1e-12 {
		t.Fatalf("unexpected stddev: got=%f want=%f", got.StdDev, want)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	empty := Summarize(1, nil)
	if empty.Size != 0 || empty.Generation != 1 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
	single := Summarize(1, []float64{0.7})
	if single.StdDev != 0 || single.Best != 0.7 || single.Min != 0.7 {
		t.Fatalf("unexpected single summary: %+v", single)
	}
}

func TestBestByGenerationAndImprovement(t *testing.T) {
	history := []model.GenerationStats{{Best: 0.2}, {Best: 0.5}, {Best: 0.9}}
	best := BestByGeneration(history)
	if len(best) != 3 || best[0] != 0.2 || best[2] != 0.9 {
		t.Fatalf("unexpected series: %v", best)
	}
	if got := Improvement(history); math.Abs(got-0.7) > 1e-12 {
		t.Fatalf("unexpected improvement: %f", got)
	}
	if Improvement(nil) != 0 {
		t.Fatal("expected zero improvement for empty history")
	}
}
