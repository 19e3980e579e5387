package nn

func validateTopology(topology []int) error {
	if len(topology) == 0 {
		return invalidArgument("topology", "a network without layers is invalid")
	}
	for i, size := range topology {
		if size < 1 {
			return invalidArgument("topology", "layer %d has %d neurons, every layer needs at least 1", i, size)
		}
	}
	return nil
}

func parameterCount(topology []int) int {
	total := 0
	for l := 1; l < len(topology); l++ {
		total += topology[l] + topology[l]*topology[l-1]
	}
	return total
}

// ParameterCount returns the length of the flat parameter vector for topology:
// one bias plus one weight per preceding neuron, for every neuron outside the
// input layer.
func ParameterCount(topology []int) (int, error) {
	if err := validateTopology(topology); err != nil {
		return 0, err
	}
	return parameterCount(topology), nil
}

// SplitParameters partitions a flat parameter vector into the biases and
// weights accepted by InferFlat for topology[1:].
func SplitParameters(topology []int, params []float64) (biases, weights []float64, err error) {
	if err := validateTopology(topology); err != nil {
		return nil, nil, err
	}
	if params == nil {
		return nil, nil, nullArgument("params", "weights and biases are required")
	}
	expected := parameterCount(topology)
	if len(params) != expected {
		return nil, nil, invalidArgument("params", "the total number of weights and biases must be %d, got %d", expected, len(params))
	}

	biases = make([]float64, 0, len(params))
	weights = make([]float64, 0, len(params))
	cursor := 0
	for l := 1; l < len(topology); l++ {
		for j := 0; j < topology[l]; j++ {
			biases = append(biases, params[cursor])
			cursor++
			weights = append(weights, params[cursor:cursor+topology[l-1]]...)
			cursor += topology[l-1]
		}
	}
	return biases, weights, nil
}

// JoinParameters is the inverse of SplitParameters.
func JoinParameters(topology []int, biases, weights []float64) ([]float64, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}
	if biases == nil {
		return nil, nullArgument("biases", "biases are required")
	}
	if weights == nil {
		return nil, nullArgument("weights", "weights are required")
	}
	expectedBiases, expectedWeights := 0, 0
	for l := 1; l < len(topology); l++ {
		expectedBiases += topology[l]
		expectedWeights += topology[l] * topology[l-1]
	}
	if len(biases) != expectedBiases {
		return nil, invalidArgument("biases", "the total number of biases should be %d, but was %d", expectedBiases, len(biases))
	}
	if len(weights) != expectedWeights {
		return nil, invalidArgument("weights", "the total number of weights should be %d, but was %d", expectedWeights, len(weights))
	}

	out := make([]float64, 0, expectedBiases+expectedWeights)
	b, w := 0, 0
	for l := 1; l < len(topology); l++ {
		for j := 0; j < topology[l]; j++ {
			out = append(out, biases[b])
			b++
			out = append(out, weights[w:w+topology[l-1]]...)
			w += topology[l-1]
		}
	}
	return out, nil
}
