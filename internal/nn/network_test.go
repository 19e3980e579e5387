package nn

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestNewRejectsInvalidTopology(t *testing.T) {
	tests := []struct {
		name     string
		topology []int
	}{
		{name: "nil", topology: nil},
		{name: "empty", topology: []int{}},
		{name: "zero-layer", topology: []int{1, 3, 0, 2}},
		{name: "negative-layer", topology: []int{-1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.topology, WithSeed(1))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestNewBuildsLayersPerTopology(t *testing.T) {
	for _, topology := range [][]int{{1}, {1, 3, 2}, {3, 2, 4}, {784, 50, 10}} {
		net, err := New(topology, WithSeed(7))
		if err != nil {
			t.Fatalf("new %v: %v", topology, err)
		}
		if net.NumLayers() != len(topology) {
			t.Fatalf("unexpected layer count for %v: got=%d", topology, net.NumLayers())
		}
		for i, layer := range net.Layers() {
			if layer.Size() != topology[i] {
				t.Fatalf("layer %d of %v: got=%d want=%d", i, topology, layer.Size(), topology[i])
			}
		}
	}
}

func TestNewWiresAdjacentLayersWithSharedConnections(t *testing.T) {
	net, err := New([]int{2, 3, 2}, WithSeed(3))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	input, hidden, output := net.Layer(0), net.Layer(1), net.Layer(2)
	for _, neuron := range input.Neurons() {
		if neuron.NumInputs() != 0 || neuron.NumOutputs() != 3 {
			t.Fatalf("input neuron wiring: inputs=%d outputs=%d", neuron.NumInputs(), neuron.NumOutputs())
		}
	}
	for _, neuron := range hidden.Neurons() {
		if neuron.NumInputs() != 2 || neuron.NumOutputs() != 2 {
			t.Fatalf("hidden neuron wiring: inputs=%d outputs=%d", neuron.NumInputs(), neuron.NumOutputs())
		}
	}
	for _, neuron := range output.Neurons() {
		if neuron.NumInputs() != 3 || neuron.NumOutputs() != 1 {
			t.Fatalf("output neuron wiring: inputs=%d outputs=%d", neuron.NumInputs(), neuron.NumOutputs())
		}
	}

	seen := map[int]struct{}{}
	for l := 0; l < net.NumLayers()-1; l++ {
		producers, consumers := net.Layer(l), net.Layer(l+1)
		for i := 0; i < producers.Size(); i++ {
			for j := 0; j < consumers.Size(); j++ {
				out := producers.Neuron(i).Output(j)
				in := consumers.Neuron(j).Input(i)
				if !out.Same(in) {
					t.Fatalf("layer %d producer %d consumer %d: output %d is not input %d", l, i, j, out.Index(), in.Index())
				}
				if _, dup := seen[out.Index()]; dup {
					t.Fatalf("connection %d shared by more than one pair", out.Index())
				}
				seen[out.Index()] = struct{}{}
			}
		}
	}

	for i, neuron := range output.Neurons() {
		terminal := neuron.Output(0)
		if _, dup := seen[terminal.Index()]; dup {
			t.Fatalf("terminal connection of output neuron %d is wired to a neuron", i)
		}
	}
}

func TestConnectionValueVisibleToBothEnds(t *testing.T) {
	net, err := New([]int{1, 1}, WithSeed(5))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out := net.Layer(0).Neuron(0).Output(0)
	out.SetValue(0.75)
	out.SetWeight(-0.5)

	in := net.Layer(1).Neuron(0).Input(0)
	if in.Value() != 0.75 || in.Weight() != -0.5 {
		t.Fatalf("unexpected consumer view: value=%f weight=%f", in.Value(), in.Weight())
	}
}

func TestNewRandomizesWithinUnitRange(t *testing.T) {
	net, err := New([]int{4, 6, 3}, WithRand(rand.New(rand.NewSource(11))))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, v := range net.Parameters() {
		if v < -1 || v >= 1 {
			t.Fatalf("parameter out of [-1, 1): %f", v)
		}
	}
}

func TestNewSeededIsReproducible(t *testing.T) {
	a, err := New([]int{3, 4, 2}, WithSeed(42))
	if err != nil {
		t.Fatalf("new a: %v", err)
	}
	b, err := New([]int{3, 4, 2}, WithSeed(42))
	if err != nil {
		t.Fatalf("new b: %v", err)
	}
	pa, pb := a.Parameters(), b.Parameters()
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("parameter %d differs: %f != %f", i, pa[i], pb[i])
		}
	}
}

func TestNewWithParametersValidatesVector(t *testing.T) {
	_, err := NewWithParameters([]int{2, 3, 1}, nil)
	if !errors.Is(err, ErrNullArgument) {
		t.Fatalf("expected null argument, got %v", err)
	}

	_, err = NewWithParameters([]int{2, 3, 1}, make([]float64, 12))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if !strings.Contains(err.Error(), "13") {
		t.Fatalf("expected error to name required count 13: %v", err)
	}
}

func TestLoadAndParametersAgree(t *testing.T) {
	topology := []int{2, 3, 2}
	params := make([]float64, 0, 17)
	for i := 0; i < 17; i++ {
		params = append(params, float64(i)/10)
	}

	net, err := NewWithParameters(topology, params, WithSeed(1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	hidden := net.Layer(1).Neuron(1)
	if hidden.Bias() != 0.3 || hidden.Input(0).Weight() != 0.4 || hidden.Input(1).Weight() != 0.5 {
		t.Fatalf("unexpected hidden neuron 1: bias=%f w=[%f %f]", hidden.Bias(), hidden.Input(0).Weight(), hidden.Input(1).Weight())
	}
	out := net.Layer(2).Neuron(0)
	if out.Bias() != 0.9 || out.Input(2).Weight() != 1.2 {
		t.Fatalf("unexpected output neuron 0: bias=%f w2=%f", out.Bias(), out.Input(2).Weight())
	}

	got := net.Parameters()
	for i := range params {
		if got[i] != params[i] {
			t.Fatalf("parameter %d: got=%f want=%f", i, got[i], params[i])
		}
	}
}

func TestInferSingleHiddenNeuron(t *testing.T) {
	net, err := NewWithParameters([]int{1, 1}, []float64{0.5, 0.25}, WithSeed(9))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	out, err := net.Infer([]float64{0.3})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	want := 1 / (1 + math.Exp(-0.575))
	if len(out) != 1 || math.Abs(out[0]-want) > 1e-12 {
		t.Fatalf("unexpected output: got=%v want=%f", out, want)
	}
	if math.Abs(out[0]-0.6399) > 1e-3 {
		t.Fatalf("unexpected output magnitude: %f", out[0])
	}
}

func TestInferSingleLayer(t *testing.T) {
	net, err := New([]int{1}, WithSeed(2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := net.Infer([]float64{0.8})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(out) != 1 || math.Abs(out[0]-Sigmoid(0.8)) > 1e-12 {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestInferRejectsBadInputs(t *testing.T) {
	net, err := New([]int{1}, WithSeed(2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := net.Infer(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil inputs, got %v", err)
	}
	if _, err := net.Infer([]float64{2, 3}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for wrong length, got %v", err)
	}
}

func TestInferIsIdempotentAndNotAdditive(t *testing.T) {
	net, err := New([]int{3, 5, 4, 2}, WithSeed(21))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	a := []float64{0.1, -0.4, 0.9}
	b := []float64{1, 1, 1}

	first, err := net.Infer(a)
	if err != nil {
		t.Fatalf("infer a: %v", err)
	}
	if _, err := net.Infer(b); err != nil {
		t.Fatalf("infer b: %v", err)
	}
	second, err := net.Infer(a)
	if err != nil {
		t.Fatalf("infer a again: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("output %d changed across calls: %f != %f", i, first[i], second[i])
		}
	}
}

func TestNeuronActivateWritesAllOutputs(t *testing.T) {
	net, err := NewWithParameters([]int{2, 1, 3}, []float64{
		0.1, 0.5, -0.5, // hidden neuron
		0, 1, 0, 1, 0, 1, // output neurons
	}, WithSeed(4))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	input := net.Layer(0)
	input.Neuron(0).Output(0).SetValue(0.6)
	input.Neuron(1).Output(0).SetValue(0.2)

	hidden := net.Layer(1).Neuron(0)
	hidden.Activate()

	want := Sigmoid(0.1 + 0.6*0.5 + 0.2*-0.5)
	for _, out := range hidden.Outputs() {
		if math.Abs(out.Value()-want) > 1e-12 {
			t.Fatalf("unexpected output signal: got=%f want=%f", out.Value(), want)
		}
	}
	if input.Neuron(0).Output(0).Value() != 0.6 {
		t.Fatal("activate must not modify inputs")
	}
}

func TestLayerActivateAllNeurons(t *testing.T) {
	net, err := NewWithParameters([]int{1, 2}, []float64{0, 1, 1, -1}, WithSeed(4))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	net.Layer(0).Neuron(0).Output(0).SetValue(2)
	net.Layer(0).Neuron(0).Output(1).SetValue(2)
	net.Layer(1).Activate()

	got0 := net.Layer(1).Neuron(0).Output(0).Value()
	got1 := net.Layer(1).Neuron(1).Output(0).Value()
	if math.Abs(got0-Sigmoid(2)) > 1e-12 || math.Abs(got1-Sigmoid(-1)) > 1e-12 {
		t.Fatalf("unexpected layer outputs: %f %f", got0, got1)
	}
}
