//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "neuroevo.db"))
	t.Cleanup(func() {
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "neuroevo.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := first.SaveFitnessHistory(ctx, "run", []float64{0.5}); err != nil {
		t.Fatalf("save fitness history: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})
	history, ok, err := second.GetFitnessHistory(ctx, "run")
	if err != nil || !ok || len(history) != 1 || history[0] != 0.5 {
		t.Fatalf("unexpected history after reopen: %v ok=%t err=%v", history, ok, err)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "neuroevo.db"))
	if _, _, err := store.GetRun(context.Background(), "missing"); err == nil {
		t.Fatal("expected not initialized error")
	}
}
