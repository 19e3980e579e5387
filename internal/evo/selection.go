package evo

import (
	"math/rand"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
)

// Selector chooses parents from chromosomes ranked by descending fitness.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []ScoredChromosome, eliteCount int) (model.Chromosome, error)
}

// EliteSelector picks uniformly from the top elite set.
type EliteSelector struct{}

func (EliteSelector) Name() string {
	return "elite"
}

func (EliteSelector) PickParent(rng *rand.Rand, ranked []ScoredChromosome, eliteCount int) (model.Chromosome, error) {
	if rng == nil {
		return model.Chromosome{}, errors.New("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return model.Chromosome{}, errors.Errorf("invalid elite count: %d", eliteCount)
	}
	return ranked[rng.Intn(eliteCount)].Chromosome, nil
}

// TournamentSelector samples candidates and picks the best fitness among them.
type TournamentSelector struct {
	PoolSize       int
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []ScoredChromosome, eliteCount int) (model.Chromosome, error) {
	if rng == nil {
		return model.Chromosome{}, errors.New("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return model.Chromosome{}, errors.Errorf("invalid elite count: %d", eliteCount)
	}

	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = eliteCount * 2
	}
	if poolSize < eliteCount {
		poolSize = eliteCount
	}
	if poolSize > len(ranked) {
		poolSize = len(ranked)
	}

	tournamentSize := s.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = 3
	}
	if tournamentSize > poolSize {
		tournamentSize = poolSize
	}

	best := ranked[rng.Intn(poolSize)]
	for i := 1; i < tournamentSize; i++ {
		candidate := ranked[rng.Intn(poolSize)]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Chromosome, nil
}
