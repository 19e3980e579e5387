package storage

import (
	"context"

	"sigmanet/internal/model"
)

// Store persists training runs and the chromosomes they produce.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunSummary) error
	GetRun(ctx context.Context, runID string) (model.RunSummary, bool, error)
	ListRuns(ctx context.Context) ([]model.RunSummary, error)
	SaveChromosome(ctx context.Context, chromosome model.Chromosome) error
	GetChromosome(ctx context.Context, id string) (model.Chromosome, bool, error)
	SaveTopChromosomes(ctx context.Context, runID string, top []model.Chromosome) error
	GetTopChromosomes(ctx context.Context, runID string) ([]model.Chromosome, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}
