package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neuroevo/internal/model"
	"neuroevo/pkg/neuroevo"
)

func TestRunRequiresKnownCommand(t *testing.T) {
	if err := run(context.Background(), nil, io.Discard); err == nil || !strings.Contains(err.Error(), "missing command") {
		t.Fatalf("expected missing command error, got %v", err)
	}
	if err := run(context.Background(), []string{"evolve"}, io.Discard); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunCommandMemoryStore(t *testing.T) {
	artifacts := filepath.Join(t.TempDir(), "runs")
	var out bytes.Buffer
	args := []string{
		"run",
		"--store", "memory",
		"--artifacts-dir", artifacts,
		"--run-id", "cli-run",
		"--scape", "xor",
		"--topology", "2,3,1",
		"--pop", "8",
		"--gens", "3",
		"--seed", "5",
		"--workers", "2",
		"--log-level", "error",
	}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("run command: %v", err)
	}
	if !strings.Contains(out.String(), "run_id=cli-run generations=3") {
		t.Fatalf("unexpected output: %s", out.String())
	}
	for _, name := range []string{"config.json", "fitness.csv", "best.json"} {
		if _, err := os.Stat(filepath.Join(artifacts, "cli-run", name)); err != nil {
			t.Fatalf("expected artifact %s: %v", name, err)
		}
	}
}

func TestRunCommandFromConfigWithOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "run.yaml")
	if err := run(context.Background(), []string{"init", "--store", "memory", "--write-config", configPath}, io.Discard); err != nil {
		t.Fatalf("init: %v", err)
	}

	req, err := loadOrDefaultRunRequest(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if req.Population != neuroevo.DefaultRunRequest().Population {
		t.Fatalf("expected default population in written config, got %d", req.Population)
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	overrides := addRunFlags(fs)
	if err := fs.Parse([]string{"--pop", "7", "--topology", "2, 5, 1", "--elitism", "2"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := overrides.apply(fs, &req); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if req.Population != 7 || req.Elitism != 2 || len(req.Topology) != 3 || req.Topology[1] != 5 {
		t.Fatalf("overrides not applied: %+v", req)
	}
	if req.Generations != neuroevo.DefaultRunRequest().Generations {
		t.Fatalf("unset flag overrode config: generations=%d", req.Generations)
	}
}

func TestParseTopology(t *testing.T) {
	got, err := parseTopology("2,4,1")
	if err != nil || len(got) != 3 || got[1] != 4 {
		t.Fatalf("unexpected topology: %v err=%v", got, err)
	}
	for _, raw := range []string{"2", "2,x,1", "2,0,1", ""} {
		if _, err := parseTopology(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	if formatTopology([]int{2, 4, 1}) != "2,4,1" {
		t.Fatal("format topology mismatch")
	}
}

func TestLogFlags(t *testing.T) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	logging := addLogFlags(fs)
	if err := fs.Parse([]string{"--log-format", "json", "--log-level", "debug"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	logger, err := logging.logger(&buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Debug("configured", "k", 1)
	if !strings.Contains(buf.String(), `"msg":"configured"`) {
		t.Fatalf("expected json log line, got %q", buf.String())
	}

	bad := addLogFlags(flag.NewFlagSet("x", flag.ContinueOnError))
	*bad.format = "xml"
	if _, err := bad.logger(io.Discard); err == nil {
		t.Fatal("expected invalid format error")
	}
}

func TestQueryCommandsValidateFlags(t *testing.T) {
	ctx := context.Background()
	cases := [][]string{
		{"fitness", "--store", "memory"},
		{"stats", "--store", "memory"},
		{"export", "--store", "memory"},
		{"population", "--store", "memory", "--run-id", "r"},
		{"population", "--store", "memory", "--id", "r/gen-1", "--run-id", "r"},
	}
	for _, args := range cases {
		if err := run(ctx, args, io.Discard); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
	if err := run(ctx, []string{"fitness", "--store", "memory", "--run-id", "missing"}, io.Discard); err == nil {
		t.Fatal("expected missing run error")
	}
}

func TestWriteStatsReportsImprovement(t *testing.T) {
	var out bytes.Buffer
	writeStats(&out, []model.GenerationStats{
		{Generation: 1, Size: 4, Best: 0.25, Mean: 0.2, Min: 0.1},
		{Generation: 2, Size: 4, Best: 0.75, Mean: 0.5, Min: 0.3},
	})
	if !strings.Contains(out.String(), "generation=2 size=4 best=0.750000") {
		t.Fatalf("missing generation line: %s", out.String())
	}
	if !strings.Contains(out.String(), "improvement=0.500000") {
		t.Fatalf("missing improvement line: %s", out.String())
	}
}
