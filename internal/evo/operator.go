package evo

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
)

// Operator mutates one chromosome into a new one.
type Operator interface {
	Name() string
	Apply(ctx context.Context, rng *rand.Rand, c model.Chromosome) (model.Chromosome, error)
}

// Crossover recombines two parents into one child.
type Crossover interface {
	Name() string
	Cross(rng *rand.Rand, a, b model.Chromosome) (model.Chromosome, error)
}

// GaussianMutation perturbs each gene with probability Rate by a normal
// sample scaled by Power.
type GaussianMutation struct {
	Rate  float64
	Power float64
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

func (m GaussianMutation) Apply(ctx context.Context, rng *rand.Rand, c model.Chromosome) (model.Chromosome, error) {
	if err := ctx.Err(); err != nil {
		return model.Chromosome{}, err
	}
	if rng == nil {
		return model.Chromosome{}, errors.New("random source is required")
	}
	if m.Rate < 0 || m.Rate > 1 {
		return model.Chromosome{}, errors.Errorf("mutation rate must be in [0, 1], got %f", m.Rate)
	}

	out := c.Clone()
	for i := range out.Genes {
		if rng.Float64() < m.Rate {
			out.Genes[i] += rng.NormFloat64() * m.Power
		}
	}
	return out, nil
}

// UniformCrossover takes each gene from either parent with equal probability.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Cross(rng *rand.Rand, a, b model.Chromosome) (model.Chromosome, error) {
	if err := checkParents(rng, a, b); err != nil {
		return model.Chromosome{}, err
	}
	child := a.Clone()
	for i := range child.Genes {
		if rng.Intn(2) == 1 {
			child.Genes[i] = b.Genes[i]
		}
	}
	return child, nil
}

// SinglePointCrossover takes a prefix from one parent and the suffix from the other.
type SinglePointCrossover struct{}

func (SinglePointCrossover) Name() string {
	return "single_point"
}

func (SinglePointCrossover) Cross(rng *rand.Rand, a, b model.Chromosome) (model.Chromosome, error) {
	if err := checkParents(rng, a, b); err != nil {
		return model.Chromosome{}, err
	}
	child := a.Clone()
	if len(child.Genes) == 0 {
		return child, nil
	}
	point := rng.Intn(len(child.Genes) + 1)
	copy(child.Genes[point:], b.Genes[point:])
	return child, nil
}

func checkParents(rng *rand.Rand, a, b model.Chromosome) error {
	if rng == nil {
		return errors.New("random source is required")
	}
	if len(a.Genes) != len(b.Genes) {
		return errors.Errorf("parent gene count mismatch: %d != %d", len(a.Genes), len(b.Genes))
	}
	return nil
}
