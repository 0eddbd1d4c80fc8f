package nnlib

import (
	"fmt"
	"strings"
)

// Network is a stack of fully connected layers. Layer 0 is the input layer and
// has no incoming links; layer i > 0 reads from layer i-1.
type Network struct {
	layers []Layer
}

// NewNetwork builds a network with one layer per entry of layerSizes. Weights are
// drawn from rng, thresholds and outputs start at zero.
// At least one layer (the input layer) is required and no size may be negative.
func NewNetwork(layerSizes []int, rng Rand) (*Network, error) {
	if len(layerSizes) == 0 {
		return nil, fmt.Errorf("%w: network needs at least one layer", ErrInvalidArgument)
	}
	for i, size := range layerSizes {
		if size < 0 {
			return nil, fmt.Errorf("%w: layer %d has negative size %d", ErrInvalidArgument, i, size)
		}
	}
	if rng == nil && len(layerSizes) > 1 {
		return nil, fmt.Errorf("%w: random source is required to initialise weights", ErrInvalidArgument)
	}

	net := &Network{layers: make([]Layer, len(layerSizes))}
	net.layers[0] = newLayer(layerSizes[0], NoBase, nil, rng)
	for i := 1; i < len(layerSizes); i++ {
		net.layers[i] = newLayer(layerSizes[i], i-1, &net.layers[i-1], rng)
	}
	return net, nil
}

// MustNewNetwork is like NewNetwork but panics if the network cannot be built.
func MustNewNetwork(layerSizes []int, rng Rand) *Network {
	net, err := NewNetwork(layerSizes, rng)
	if err != nil {
		panic(err)
	}
	return net
}

// NumLayers returns the number of layers, input layer included.
func (net *Network) NumLayers() int {
	return len(net.layers)
}

// Topology returns the per-layer neuron counts.
func (net *Network) Topology() []int {
	sizes := make([]int, len(net.layers))
	for i := range net.layers {
		sizes[i] = net.layers[i].Size()
	}
	return sizes
}

// Layer returns layer i. The returned pointer aliases the network's storage.
func (net *Network) Layer(i int) (*Layer, error) {
	if i < 0 || i >= len(net.layers) {
		return nil, fmt.Errorf("%w: layer index %d out of range [0,%d)", ErrInvalidArgument, i, len(net.layers))
	}
	return &net.layers[i], nil
}

func (net *Network) inputLayer() *Layer {
	return &net.layers[0]
}

func (net *Network) outputLayer() *Layer {
	return &net.layers[len(net.layers)-1]
}

// SetInputs writes values straight into the outputs of the input layer.
// len(values) must equal the input layer size.
func (net *Network) SetInputs(values []float64) error {
	in := net.inputLayer()
	if len(values) != in.Size() {
		return fmt.Errorf("%w: got %d inputs, input layer has %d neurons", ErrInvalidArgument, len(values), in.Size())
	}
	for i, v := range values {
		in.Neurons[i].Output = v
	}
	return nil
}

// ReadOutputs copies the output layer's values into buf.
// len(buf) must equal the output layer size.
func (net *Network) ReadOutputs(buf []float64) error {
	out := net.outputLayer()
	if len(buf) != out.Size() {
		return fmt.Errorf("%w: got buffer of %d, output layer has %d neurons", ErrInvalidArgument, len(buf), out.Size())
	}
	out.outputs(buf)
	return nil
}

// Outputs returns a fresh copy of the output layer's values.
func (net *Network) Outputs() []float64 {
	out := net.outputLayer()
	buf := make([]float64, out.Size())
	out.outputs(buf)
	return buf
}

// LayerOutputs returns a copy of the current outputs of layer i.
func (net *Network) LayerOutputs(i int) ([]float64, error) {
	l, err := net.Layer(i)
	if err != nil {
		return nil, err
	}
	buf := make([]float64, l.Size())
	l.outputs(buf)
	return buf, nil
}

// ComputeOutputs propagates forward from layer 1 to the last layer, strictly in
// order: each layer reads the outputs its predecessor has just produced.
// The input layer is never recomputed; its values come only from SetInputs, so
// callers must set inputs before the first call.
func (net *Network) ComputeOutputs() {
	for l := 1; l < len(net.layers); l++ {
		net.layers[l].computeOutputs(net.layers, DefaultSteepness)
	}
}

// Activate sets the inputs, runs forward propagation and returns the outputs.
func (net *Network) Activate(inputs []float64) ([]float64, error) {
	if err := net.SetInputs(inputs); err != nil {
		return nil, err
	}
	net.ComputeOutputs()
	return net.Outputs(), nil
}

// Clone returns a deep copy of the network, current outputs included.
func (net *Network) Clone() *Network {
	c := &Network{layers: make([]Layer, len(net.layers))}
	for i, l := range net.layers {
		neurons := make([]Neuron, len(l.Neurons))
		for j, n := range l.Neurons {
			neurons[j] = n
			if n.Incoming != nil {
				neurons[j].Incoming = append([]Link(nil), n.Incoming...)
			}
		}
		c.layers[i] = Layer{Neurons: neurons, Base: l.Base}
	}
	return c
}

// String returns a per-layer dump of the network's neurons.
func (net *Network) String() string {
	var sb strings.Builder
	for i := range net.layers {
		l := &net.layers[i]
		sb.WriteString(fmt.Sprintf("Layer %d (base %d, %d neurons):\n", i, l.Base, l.Size()))
		for j := range l.Neurons {
			sb.WriteString(fmt.Sprintf("  %d: %s\n", j, l.Neurons[j].String()))
		}
	}
	return sb.String()
}
