package scape

import (
	"context"

	"github.com/pkg/errors"

	"sigmanet/internal/model"
	"sigmanet/internal/nn"
)

type Fitness float64

type Trace map[string]any

// Evaluator maps one input vector to the network's output vector.
type Evaluator func(inputs []float64) ([]float64, error)

// Scape scores a parameterized network. Higher fitness is better.
type Scape interface {
	Name() string
	Evaluate(ctx context.Context, eval Evaluator) (Fitness, Trace, error)
}

// ModeAwareScape optionally exposes gt/validation/test case routing.
type ModeAwareScape interface {
	Scape
	EvaluateMode(ctx context.Context, eval Evaluator, mode string) (Fitness, Trace, error)
}

// FlatEvaluator evaluates genes as a network of the given topology through
// nn.InferFlat. The returned Evaluator is safe for concurrent use.
func FlatEvaluator(topology []int, genes []float64) (Evaluator, error) {
	if len(topology) < 2 {
		return nil, errors.Errorf("flat evaluation needs an input and at least one more layer, got topology %v", topology)
	}
	biases, weights, err := nn.SplitParameters(topology, genes)
	if err != nil {
		return nil, errors.Wrap(err, "split chromosome")
	}
	sizes := append([]int(nil), topology[1:]...)
	return func(inputs []float64) ([]float64, error) {
		return nn.InferFlat(inputs, sizes, biases, weights)
	}, nil
}

// NetworkEvaluator evaluates through a graph network. Like the network itself,
// it must not be shared between goroutines.
func NetworkEvaluator(net *nn.Network) Evaluator {
	return net.Infer
}

// EvaluateChromosome scores a chromosome against s using the flat evaluator.
func EvaluateChromosome(ctx context.Context, s Scape, topology []int, c model.Chromosome) (Fitness, Trace, error) {
	eval, err := FlatEvaluator(topology, c.Genes)
	if err != nil {
		return 0, nil, errors.Wrapf(err, "chromosome %s", c.ID)
	}
	return s.Evaluate(ctx, eval)
}
