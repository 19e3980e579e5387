package storage

import (
	"context"
	"testing"

	"sigmanet/internal/model"
)

// exerciseStore runs the round trips every backend must support.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	run := model.RunSummary{
		VersionedRecord: CurrentVersion(),
		RunID:           "run-1",
		Scape:           "xor",
		Topology:        []int{2, 3, 1},
		Population:      20,
		Generations:     5,
		Seed:            7,
		BestID:          "c1",
		BestFitness:     0.95,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := store.SaveRun(ctx, model.RunSummary{VersionedRecord: CurrentVersion(), RunID: "run-0"}); err != nil {
		t.Fatalf("save run-0: %v", err)
	}
	loadedRun, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok || loadedRun.BestFitness != 0.95 || len(loadedRun.Topology) != 3 || loadedRun.Topology[1] != 3 {
		t.Fatalf("unexpected run loaded: ok=%v %+v", ok, loadedRun)
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-0" || runs[1].RunID != "run-1" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run: ok=%v err=%v", ok, err)
	}

	chromosome := model.Chromosome{
		VersionedRecord: CurrentVersion(),
		ID:              "c1",
		RunID:           "run-1",
		Generation:      4,
		Genes:           []float64{0.5, -0.25, 1.125},
		Fitness:         0.95,
	}
	if err := store.SaveChromosome(ctx, chromosome); err != nil {
		t.Fatalf("save chromosome: %v", err)
	}
	loaded, ok, err := store.GetChromosome(ctx, "c1")
	if err != nil {
		t.Fatalf("get chromosome: %v", err)
	}
	if !ok || loaded.Generation != 4 || len(loaded.Genes) != 3 || loaded.Genes[2] != 1.125 {
		t.Fatalf("unexpected chromosome loaded: ok=%v %+v", ok, loaded)
	}

	top := []model.Chromosome{chromosome, {VersionedRecord: CurrentVersion(), ID: "c2", RunID: "run-1", Genes: []float64{1}}}
	if err := store.SaveTopChromosomes(ctx, "run-1", top); err != nil {
		t.Fatalf("save top: %v", err)
	}
	loadedTop, ok, err := store.GetTopChromosomes(ctx, "run-1")
	if err != nil {
		t.Fatalf("get top: %v", err)
	}
	if !ok || len(loadedTop) != 2 || loadedTop[1].ID != "c2" {
		t.Fatalf("unexpected top loaded: ok=%v %+v", ok, loadedTop)
	}

	history := []float64{0.5, 0.7, 0.9}
	if err := store.SaveFitnessHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	loadedHistory, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if !ok || len(loadedHistory) != 3 || loadedHistory[1] != 0.7 {
		t.Fatalf("unexpected history loaded: ok=%v %+v", ok, loadedHistory)
	}

	diagnostics := []model.GenerationDiagnostics{{Generation: 1, BestFitness: 0.7, MeanFitness: 0.5, MinFitness: 0.1, Evaluations: 20}}
	if err := store.SaveGenerationDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	loadedDiagnostics, ok, err := store.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil {
		t.Fatalf("get diagnostics: %v", err)
	}
	if !ok || len(loadedDiagnostics) != 1 || loadedDiagnostics[0].Evaluations != 20 {
		t.Fatalf("unexpected diagnostics loaded: ok=%v %+v", ok, loadedDiagnostics)
	}
}
