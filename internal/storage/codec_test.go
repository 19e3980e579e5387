package storage

import (
	"errors"
	"testing"

	"sigmanet/internal/model"
)

func TestDecodeChromosomeRejectsVersionMismatch(t *testing.T) {
	payload, err := EncodeChromosome(model.Chromosome{
		VersionedRecord: model.VersionedRecord{SchemaVersion: 99, CodecVersion: CurrentCodecVersion},
		ID:              "c1",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeChromosome(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestDecodeChromosomesRejectsAnyStaleRecord(t *testing.T) {
	payload, err := EncodeChromosomes([]model.Chromosome{
		{VersionedRecord: CurrentVersion(), ID: "ok"},
		{ID: "stale"},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeChromosomes(payload); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestDecodeRunSummaryRejectsGarbage(t *testing.T) {
	if _, err := DecodeRunSummary([]byte("{")); err == nil {
		t.Fatal("expected decode error")
	}
	payload, err := EncodeRunSummary(model.RunSummary{VersionedRecord: CurrentVersion(), RunID: "r", Topology: []int{1, 2}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	run, err := DecodeRunSummary(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.RunID != "r" || len(run.Topology) != 2 {
		t.Fatalf("unexpected run: %+v", run)
	}
}
