package nn

// Network is a fully connected feed-forward net of sigmoid neurons.
//
// All connection weights and signals live in two arrays owned by the network.
// Connections into layer l are stored consumer-major: the inputs of a neuron
// occupy a contiguous range in producer order, which is also the order its
// weights appear in a flat parameter vector. The terminal connections of the
// output layer follow at the end.
//
// Infer writes connection signals, so a Network must not be used by more than
// one goroutine at a time. Use one instance per goroutine or InferFlat.
type Network struct {
	topology []int
	layers   []Layer
	signals  []float64
	weights  []float64
	biases   []float64
}

// New builds a network with one layer per topology entry and random weights
// and biases drawn uniformly from [-1, 1).
func New(topology []int, opts ...Option) (*Network, error) {
	if err := validateTopology(topology); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	last := len(topology) - 1
	bases := make([]int, len(topology))
	slots := 0
	neurons := topology[0]
	for l := 1; l <= last; l++ {
		bases[l] = slots
		slots += topology[l] * topology[l-1]
		neurons += topology[l]
	}
	terminalBase := slots
	slots += topology[last]

	n := &Network{
		topology: append([]int(nil), topology...),
		layers:   make([]Layer, len(topology)),
		signals:  make([]float64, slots),
		weights:  make([]float64, slots),
		biases:   make([]float64, neurons),
	}

	bias := 0
	for l, size := range topology {
		layer := make([]Neuron, size)
		for i := range layer {
			neuron := &layer[i]
			neuron.net = n
			neuron.bias = bias
			bias++

			// Input layer neurons have no inputs; raw values are injected onto their outputs.
			if l > 0 {
				prev := topology[l-1]
				neuron.inputs = span{start: bases[l] + i*prev, count: prev, stride: 1}
			}
			if l < last {
				// Output slot j of producer i is input slot i of consumer j.
				neuron.outputs = span{start: bases[l+1] + i, count: topology[l+1], stride: size}
			} else {
				neuron.outputs = span{start: terminalBase + i, count: 1, stride: 1}
			}
		}
		n.layers[l] = Layer{neurons: layer}
	}

	for i := range n.biases {
		n.biases[i] = uniform(o.rng)
	}
	for i := range n.weights {
		n.weights[i] = uniform(o.rng)
	}
	return n, nil
}

// NewWithParameters builds a network and loads params into it.
func NewWithParameters(topology []int, params []float64, opts ...Option) (*Network, error) {
	n, err := New(topology, opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Load(params); err != nil {
		return nil, err
	}
	return n, nil
}

// Load overwrites the biases and weights of every layer but the first from a
// flat parameter vector: for each layer after the input layer, for each neuron,
// the bias followed by one weight per neuron of the preceding layer.
// Load must not run concurrently with Infer.
func (n *Network) Load(params []float64) error {
	if params == nil {
		return nullArgument("params", "weights and biases are required to initialize a network")
	}
	expected := parameterCount(n.topology)
	if len(params) != expected {
		return invalidArgument("params", "the total number of weights and biases must be %d, got %d", expected, len(params))
	}

	cursor := 0
	for l := 1; l < len(n.layers); l++ {
		for i := range n.layers[l].neurons {
			neuron := &n.layers[l].neurons[i]
			n.biases[neuron.bias] = params[cursor]
			cursor++
			for k := 0; k < neuron.inputs.count; k++ {
				n.weights[neuron.inputs.at(k)] = params[cursor]
				cursor++
			}
		}
	}
	return nil
}

// Parameters returns the flat parameter vector that Load would consume to
// reproduce the current biases and weights.
func (n *Network) Parameters() []float64 {
	out := make([]float64, 0, parameterCount(n.topology))
	for l := 1; l < len(n.layers); l++ {
		for i := range n.layers[l].neurons {
			neuron := &n.layers[l].neurons[i]
			out = append(out, n.biases[neuron.bias])
			for k := 0; k < neuron.inputs.count; k++ {
				out = append(out, n.weights[neuron.inputs.at(k)])
			}
		}
	}
	return out
}

// Infer runs one forward pass and returns the terminal value of each output
// neuron in order. Signals from earlier calls are overwritten, never summed.
func (n *Network) Infer(inputs []float64) ([]float64, error) {
	first := &n.layers[0]
	if inputs == nil {
		return nil, invalidArgument("inputs", "inputs are required to run a network")
	}
	if len(inputs) != first.Size() {
		return nil, invalidArgument("inputs", "the number of inputs must match the %d neurons of the input layer, got %d", first.Size(), len(inputs))
	}

	if len(n.layers) == 1 {
		// The sole layer is also the output layer: bias 0, no weighting.
		for i, v := range inputs {
			first.neurons[i].emit(Sigmoid(v))
		}
	} else {
		for i, v := range inputs {
			first.neurons[i].emit(v)
		}
		for l := 1; l < len(n.layers); l++ {
			n.layers[l].Activate()
		}
	}

	last := &n.layers[len(n.layers)-1]
	out := make([]float64, last.Size())
	for i := range last.neurons {
		out[i] = n.signals[last.neurons[i].outputs.at(0)]
	}
	return out, nil
}

// Topology returns a copy of the neuron count per layer.
func (n *Network) Topology() []int {
	return append([]int(nil), n.topology...)
}

func (n *Network) NumLayers() int { return len(n.layers) }

func (n *Network) Layer(i int) *Layer { return &n.layers[i] }

func (n *Network) Layers() []*Layer {
	out := make([]*Layer, len(n.layers))
	for i := range n.layers {
		out[i] = &n.layers[i]
	}
	return out
}
