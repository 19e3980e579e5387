package evo

import (
	"io"
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"sigmanet/internal/model"
	"sigmanet/internal/storage"
)

// RandomPopulation creates size chromosomes with genes drawn uniformly from [-1, 1).
func RandomPopulation(rng *rand.Rand, runID string, size, geneCount int) ([]model.Chromosome, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if size <= 0 {
		return nil, errors.New("population size must be > 0")
	}
	if geneCount < 0 {
		return nil, errors.New("gene count must be >= 0")
	}

	population := make([]model.Chromosome, 0, size)
	for i := 0; i < size; i++ {
		id, err := newID(rng)
		if err != nil {
			return nil, err
		}
		genes := make([]float64, geneCount)
		for j := range genes {
			genes[j] = rng.Float64()*2 - 1
		}
		population = append(population, newChromosome(id, runID, 0, genes))
	}
	return population, nil
}

func newChromosome(id, runID string, generation int, genes []float64) model.Chromosome {
	return model.Chromosome{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:         id,
		RunID:      runID,
		Generation: generation,
		Genes:      genes,
	}
}

// newID draws a v4 UUID from r so seeded runs produce reproducible IDs.
func newID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", errors.Wrap(err, "generate chromosome id")
	}
	return id.String(), nil
}
