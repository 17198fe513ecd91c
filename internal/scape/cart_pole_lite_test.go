package scape

import (
	"context"
	"errors"
	"testing"
)

type constantAgent struct {
	out []float64
	err error
}

func (constantAgent) ID() string { return "constant" }

func (a constantAgent) Propagate(context.Context, []float64) ([]float64, error) {
	return a.out, a.err
}

type dampingAgent struct{}

func (dampingAgent) ID() string { return "damping" }

func (dampingAgent) Propagate(_ context.Context, in []float64) ([]float64, error) {
	return []float64{-in[0] - in[1]}, nil
}

func TestCartPoleLiteRewardsDamping(t *testing.T) {
	s := CartPoleLiteScape{}
	idle, _, err := s.Evaluate(context.Background(), constantAgent{out: []float64{0}})
	if err != nil {
		t.Fatalf("evaluate idle: %v", err)
	}
	damped, trace, err := s.Evaluate(context.Background(), dampingAgent{})
	if err != nil {
		t.Fatalf("evaluate damping: %v", err)
	}
	if damped <= idle {
		t.Fatalf("expected damping controller to beat idle: damped=%f idle=%f", damped, idle)
	}
	if damped <= 0 || damped > 1 {
		t.Fatalf("fitness out of range: %f", damped)
	}
	if trace["steps_survived"].(int) != len(cartPoleStarts)*cartPoleSteps {
		t.Fatalf("expected full episodes, trace=%v", trace)
	}
}

func TestCartPoleLitePushingAwayEndsEpisodes(t *testing.T) {
	_, trace, err := CartPoleLiteScape{}.Evaluate(context.Background(), constantAgent{out: []float64{5}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if trace["steps_survived"].(int) >= len(cartPoleStarts)*cartPoleSteps {
		t.Fatalf("expected early termination, trace=%v", trace)
	}
}

func TestCartPoleLiteErrors(t *testing.T) {
	s := CartPoleLiteScape{}
	if _, _, err := s.Evaluate(context.Background(), constantAgent{out: []float64{0, 1}}); err == nil {
		t.Fatal("expected output width error")
	}
	boom := errors.New("boom")
	if _, _, err := s.Evaluate(context.Background(), constantAgent{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped agent error, got %v", err)
	}
}
