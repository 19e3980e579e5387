package nn

// Connection is a weighted wire between two neurons, or the terminal wire of an
// output neuron. It is a handle into arrays owned by its Network: the producer's
// outputs and the consumer's inputs refer to the same slot, so a value written by
// one is observed by the other without copying.
type Connection struct {
	net   *Network
	index int
}

// Index is the connection's slot in the network. Two handles denote the same
// connection exactly when their indices match.
func (c Connection) Index() int { return c.index }

// Same reports whether c and other refer to the same connection.
func (c Connection) Same(other Connection) bool {
	return c.net == other.net && c.index == other.index
}

func (c Connection) Weight() float64 { return c.net.weights[c.index] }

func (c Connection) SetWeight(w float64) { c.net.weights[c.index] = w }

// Value is the last signal propagated across the connection.
func (c Connection) Value() float64 { return c.net.signals[c.index] }

func (c Connection) SetValue(v float64) { c.net.signals[c.index] = v }

// span addresses count connections starting at start, stride apart.
type span struct {
	start  int
	count  int
	stride int
}

func (s span) at(k int) int {
	return s.start + k*s.stride
}
