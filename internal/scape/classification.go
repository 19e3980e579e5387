package scape

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"sigmanet/internal/model"
)

// ClassificationScape scores a one-output-per-class network on labeled
// samples. Fitness is the total activation of the labeled outputs divided by
// the total activation of all other outputs.
type ClassificationScape struct {
	Samples []model.Sample
}

func (ClassificationScape) Name() string {
	return "classification"
}

func (s ClassificationScape) Evaluate(ctx context.Context, eval Evaluator) (Fitness, Trace, error) {
	if len(s.Samples) == 0 {
		return 0, nil, errors.New("classification scape has no samples")
	}

	var correct, incorrect float64
	hits := 0
	for i, sample := range s.Samples {
		if err := ctx.Err(); err != nil {
			return 0, nil, err
		}
		out, err := eval(sample.Inputs)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "sample %d", i)
		}
		if sample.Label < 0 || sample.Label >= len(out) {
			return 0, nil, errors.Errorf("sample %d: label %d outside %d outputs", i, sample.Label, len(out))
		}
		labeled := out[sample.Label]
		correct += labeled
		incorrect += floats.Sum(out) - labeled
		if floats.MaxIdx(out) == sample.Label {
			hits++
		}
	}

	accuracy := float64(hits) / float64(len(s.Samples))
	trace := Trace{
		"correct":   correct,
		"incorrect": incorrect,
		"accuracy":  accuracy,
		"samples":   len(s.Samples),
	}
	if incorrect == 0 {
		// Single-output networks have nothing to compare against.
		return Fitness(correct), trace, nil
	}
	return Fitness(correct / incorrect), trace, nil
}
