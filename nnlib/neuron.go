package nnlib

import "fmt"

// Link is a weighted incoming connection. The source neuron is addressed by
// (Layer, Neuron) indices into the owning Network and resolved at evaluation
// time, so links stay valid when layers are copied or reallocated.
type Link struct {
	Weight float64
	Layer  int // Index of the source layer in the Network
	Neuron int // Index of the source neuron within that layer
}

// Neuron holds an activation value, a threshold (bias) and its weighted links
// to the neurons of the preceding layer.
type Neuron struct {
	Output    float64 // Last computed or externally set activation
	Threshold float64 // Subtracted from the weighted sum before activation
	Incoming  []Link  // Empty for input-layer neurons
}

// newNeuron creates a neuron with incomingCount zero-weight link slots.
// Input neurons (incomingCount == 0) get no incoming storage at all.
func newNeuron(incomingCount int) Neuron {
	n := Neuron{}
	if incomingCount > 0 {
		n.Incoming = make([]Link, incomingCount)
	}
	return n
}

// computeOutput sets Output to Sigmoid(sum(w_i * source_i.Output) - Threshold).
//
// A neuron without incoming links is left untouched. Input values are pushed
// in with Network.SetInputs and never pulled from elsewhere, so the no-op is
// the contract rather than an omission.
func (n *Neuron) computeOutput(layers []Layer, steepness float64) {
	if len(n.Incoming) == 0 {
		return
	}
	activation := 0.0
	for _, in := range n.Incoming {
		activation += in.Weight * layers[in.Layer].Neurons[in.Neuron].Output
	}
	activation -= n.Threshold
	n.Output = Sigmoid(activation, steepness)
}

// String returns a short description of the neuron.
func (n *Neuron) String() string {
	return fmt.Sprintf("Neuron(Output: %.4f, Threshold: %.4f, Incoming: %d)", n.Output, n.Threshold, len(n.Incoming))
}
