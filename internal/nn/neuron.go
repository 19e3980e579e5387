package nn

// Neuron holds a bias and the connections it reads from and writes to.
type Neuron struct {
	net     *Network
	bias    int
	inputs  span
	outputs span
}

func (n *Neuron) Bias() float64 { return n.net.biases[n.bias] }

func (n *Neuron) SetBias(b float64) { n.net.biases[n.bias] = b }

func (n *Neuron) NumInputs() int { return n.inputs.count }

func (n *Neuron) NumOutputs() int { return n.outputs.count }

// Input returns the k-th incoming connection.
func (n *Neuron) Input(k int) Connection {
	return Connection{net: n.net, index: n.inputs.at(k)}
}

// Output returns the k-th outgoing connection.
func (n *Neuron) Output(k int) Connection {
	return Connection{net: n.net, index: n.outputs.at(k)}
}

func (n *Neuron) Inputs() []Connection {
	out := make([]Connection, n.inputs.count)
	for k := range out {
		out[k] = n.Input(k)
	}
	return out
}

func (n *Neuron) Outputs() []Connection {
	out := make([]Connection, n.outputs.count)
	for k := range out {
		out[k] = n.Output(k)
	}
	return out
}

// Activate computes sigmoid(bias + sum(input.value * input.weight)) and writes
// the result onto every outgoing connection. Inputs are not modified.
func (n *Neuron) Activate() {
	value := activate(n.Bias(), graphInputs{
		signals: n.net.signals,
		weights: n.net.weights,
		span:    n.inputs,
	})
	n.emit(value)
}

func (n *Neuron) emit(value float64) {
	for k := 0; k < n.outputs.count; k++ {
		n.net.signals[n.outputs.at(k)] = value
	}
}
