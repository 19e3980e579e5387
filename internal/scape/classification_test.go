package scape

import (
	"context"
	"math"
	"testing"

	"sigmanet/internal/model"
	"sigmanet/internal/nn"
)

func TestClassificationScapeRatio(t *testing.T) {
	outputs := map[float64][]float64{
		0: {0.9, 0.1, 0.2},
		1: {0.3, 0.6, 0.1},
	}
	eval := func(inputs []float64) ([]float64, error) {
		return outputs[inputs[0]], nil
	}
	s := ClassificationScape{Samples: []model.Sample{
		{Label: 0, Inputs: []float64{0}},
		{Label: 2, Inputs: []float64{1}},
	}}

	fitness, trace, err := s.Evaluate(context.Background(), eval)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := (0.9 + 0.1) / (0.3 + 0.3 + 0.6)
	if math.Abs(float64(fitness)-want) > 1e-12 {
		t.Fatalf("unexpected fitness: got=%f want=%f", fitness, want)
	}
	if trace["accuracy"].(float64) != 0.5 {
		t.Fatalf("unexpected accuracy: %+v", trace)
	}
}

func TestClassificationScapeWithFlatEvaluator(t *testing.T) {
	topology := []int{2, 3}
	count, err := nn.ParameterCount(topology)
	if err != nil {
		t.Fatalf("parameter count: %v", err)
	}
	genes := make([]float64, count)
	genes[0] = 2 // bias of output 0
	eval, err := FlatEvaluator(topology, genes)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}

	s := ClassificationScape{Samples: []model.Sample{{Label: 0, Inputs: []float64{0.5, 0.5}}}}
	fitness, _, err := s.Evaluate(context.Background(), eval)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := nn.Sigmoid(2) / (2 * nn.Sigmoid(0))
	if math.Abs(float64(fitness)-want) > 1e-12 {
		t.Fatalf("unexpected fitness: got=%f want=%f", fitness, want)
	}
}

func TestClassificationScapeErrors(t *testing.T) {
	eval := func(inputs []float64) ([]float64, error) { return []float64{0.5, 0.5}, nil }

	if _, _, err := (ClassificationScape{}).Evaluate(context.Background(), eval); err == nil {
		t.Fatal("expected no samples error")
	}
	s := ClassificationScape{Samples: []model.Sample{{Label: 5, Inputs: []float64{1}}}}
	if _, _, err := s.Evaluate(context.Background(), eval); err == nil {
		t.Fatal("expected label range error")
	}
}
