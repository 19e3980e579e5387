package nn

// InferFlat evaluates a network described purely by arrays, without building
// a graph. layerSizes lists every layer after the input layer; biases hold one
// entry per neuron and weights one entry per (neuron, preceding neuron) pair,
// both in layer, then neuron, then input order.
//
// Given the same topology and a parameter vector split by SplitParameters, the
// result equals Network.Infer. InferFlat keeps no state and is safe for
// concurrent use.
func InferFlat(inputs []float64, layerSizes []int, biases, weights []float64) ([]float64, error) {
	if err := validateFlat(inputs, layerSizes, biases, weights); err != nil {
		return nil, err
	}

	current := inputs
	b, w := 0, 0
	for _, size := range layerSizes {
		width := len(current)
		out := make([]float64, size)
		for j := range out {
			out[j] = activate(biases[b], flatInputs{inputs: current, weights: weights[w : w+width]})
			b++
			w += width
		}
		current = out
	}
	return current, nil
}

func validateFlat(inputs []float64, layerSizes []int, biases, weights []float64) error {
	if len(inputs) == 0 {
		return invalidArgument("inputs", "unable to run a network without any inputs")
	}
	if len(layerSizes) == 0 {
		return invalidArgument("layerSizes", "the neuron count of each layer after the input layer is required")
	}
	for i, size := range layerSizes {
		if size < 1 {
			return invalidArgument("layerSizes", "layer %d has %d neurons, every layer needs at least 1", i, size)
		}
	}

	if biases == nil {
		return nullArgument("biases", "unable to run a network without any biases")
	}
	expectedBiases := 0
	for _, size := range layerSizes {
		expectedBiases += size
	}
	if len(biases) != expectedBiases {
		return invalidArgument("biases", "the total number of biases should be %d, but was %d", expectedBiases, len(biases))
	}

	if weights == nil {
		return nullArgument("weights", "unable to run a network without any weights")
	}
	expectedWeights := 0
	prev := len(inputs)
	for _, size := range layerSizes {
		expectedWeights += size * prev
		prev = size
	}
	if len(weights) != expectedWeights {
		return invalidArgument("weights", "the total number of weights should be %d, but was %d", expectedWeights, len(weights))
	}
	return nil
}
