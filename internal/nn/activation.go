package nn

import "math"

// Sigmoid is the logistic activation shared by every non-input neuron.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// weightedInputs is the fetch side of the activation kernel. The graph and the
// flat evaluator each provide one so that both sum in exactly the same order.
type weightedInputs interface {
	count() int
	term(k int) float64
}

// activate returns sigmoid(bias + term(0) + term(1) + ...), accumulated left to right.
func activate[W weightedInputs](bias float64, in W) float64 {
	sum := bias
	for k, n := 0, in.count(); k < n; k++ {
		sum += in.term(k)
	}
	return Sigmoid(sum)
}

// graphInputs reads a neuron's incoming connections out of the network arrays.
type graphInputs struct {
	signals []float64
	weights []float64
	span    span
}

func (g graphInputs) count() int { return g.span.count }

func (g graphInputs) term(k int) float64 {
	idx := g.span.at(k)
	return g.signals[idx] * g.weights[idx]
}

// flatInputs pairs the previous layer's outputs with the weights of one neuron.
type flatInputs struct {
	inputs  []float64
	weights []float64
}

func (f flatInputs) count() int { return len(f.inputs) }

func (f flatInputs) term(k int) float64 {
	return f.inputs[k] * f.weights[k]
}
