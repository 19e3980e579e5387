//go:build sqlite

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var runIDPattern = regexp.MustCompile(`run_id=(\S+)`)

func TestRunPersistsAcrossInvocations(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sigmanet.db")

	var out bytes.Buffer
	if err := run(ctx, []string{"run", "--store", "sqlite", "--db-path", dbPath, "--pop", "6", "--gens", "2", "--top", "3", "--progress", "never"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	match := runIDPattern.FindStringSubmatch(out.String())
	if match == nil {
		t.Fatalf("no run id in output: %q", out.String())
	}
	runID := match[1]

	out.Reset()
	if err := run(ctx, []string{"fitness", "--store", "sqlite", "--db-path", dbPath, "--run-id", runID}, &out); err != nil {
		t.Fatalf("fitness: %v", err)
	}
	if got := strings.Count(out.String(), "generation="); got != 2 {
		t.Fatalf("expected 2 fitness lines, got %d: %q", got, out.String())
	}

	out.Reset()
	if err := run(ctx, []string{"top", "--store", "sqlite", "--db-path", dbPath, "--run-id", runID, "--limit", "0"}, &out); err != nil {
		t.Fatalf("top: %v", err)
	}
	if got := strings.Count(out.String(), "rank="); got != 3 {
		t.Fatalf("expected 3 top lines, got %d: %q", got, out.String())
	}

	exportPath := filepath.Join(dir, "top.txt")
	out.Reset()
	if err := run(ctx, []string{"export", "--store", "sqlite", "--db-path", dbPath, "--run-id", runID, "--out", exportPath}, &out); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Fatalf("expected 3 checkpoint lines, got %d", got)
	}

	out.Reset()
	if err := run(ctx, []string{"infer", "--topology", "2,3,1", "--params-file", exportPath, "--inputs", "1,0"}, &out); err != nil {
		t.Fatalf("infer exported checkpoint: %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatal("expected inference output")
	}
}
