package nnlib

// NoBase marks a layer without a preceding layer (the input layer).
const NoBase = -1

// Rand is the random source used to initialise weights.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Layer is an ordered group of neurons that all read from the same base layer.
type Layer struct {
	Neurons []Neuron
	Base    int // Index of the preceding layer in the Network, or NoBase
}

// newLayer allocates size neurons. When base is non-nil every neuron is fully
// connected to it: link j points at base neuron j and starts with a weight drawn
// uniformly from {0.00, 0.01, ..., 1.99}. baseIndex is the position of base in
// the Network.
func newLayer(size int, baseIndex int, base *Layer, rng Rand) Layer {
	l := Layer{
		Neurons: make([]Neuron, size),
		Base:    NoBase,
	}
	if base == nil {
		for i := range l.Neurons {
			l.Neurons[i] = newNeuron(0)
		}
		return l
	}

	l.Base = baseIndex
	baseSize := base.Size()
	for i := range l.Neurons {
		n := newNeuron(baseSize)
		for j := range n.Incoming {
			n.Incoming[j] = Link{
				Weight: float64(rng.Intn(200)) / 100,
				Layer:  baseIndex,
				Neuron: j,
			}
		}
		l.Neurons[i] = n
	}
	return l
}

// Size returns the number of neurons in the layer.
func (l *Layer) Size() int {
	return len(l.Neurons)
}

// computeOutputs recomputes every neuron of the layer. Neurons of one layer never
// read each other, so the order within the layer does not matter.
func (l *Layer) computeOutputs(layers []Layer, steepness float64) {
	for i := range l.Neurons {
		l.Neurons[i].computeOutput(layers, steepness)
	}
}

// outputs copies the layer's neuron outputs into dst, which must have Size() elements.
func (l *Layer) outputs(dst []float64) {
	for i := range l.Neurons {
		dst[i] = l.Neurons[i].Output
	}
}
