package nn

// Layer is a fixed, non-empty, ordered set of neurons.
type Layer struct {
	neurons []Neuron
}

func (l *Layer) Size() int { return len(l.neurons) }

func (l *Layer) Neuron(i int) *Neuron { return &l.neurons[i] }

func (l *Layer) Neurons() []*Neuron {
	out := make([]*Neuron, len(l.neurons))
	for i := range l.neurons {
		out[i] = &l.neurons[i]
	}
	return out
}

// Activate activates every neuron in declaration order.
func (l *Layer) Activate() {
	for i := range l.neurons {
		l.neurons[i].Activate()
	}
}
