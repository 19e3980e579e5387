package storage

import (
	"context"
	"testing"

	"sigmanet/internal/model"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	exerciseStore(t, store)
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveRun(context.Background(), model.RunSummary{RunID: "r"}); err == nil {
		t.Fatal("expected uninitialized store error")
	}
}

func TestMemoryStoreCopiesGenes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	genes := []float64{1, 2}
	if err := store.SaveChromosome(ctx, model.Chromosome{ID: "c", Genes: genes}); err != nil {
		t.Fatalf("save: %v", err)
	}
	genes[0] = 99

	loaded, _, err := store.GetChromosome(ctx, "c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Genes[0] != 1 {
		t.Fatalf("stored genes alias caller slice: %v", loaded.Genes)
	}
	loaded.Genes[1] = 42
	again, _, _ := store.GetChromosome(ctx, "c")
	if again.Genes[1] != 2 {
		t.Fatalf("returned genes alias stored slice: %v", again.Genes)
	}
}
