package nnlib

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// NetworkCode is a flat snapshot of every tunable parameter of a Network,
// the interchange format with external optimizers.
//
// Layout: for each layer l from 1 to the last, for each neuron n of l in order,
// the threshold of n followed by its weights for the neurons of layer l-1 in
// order. The input layer contributes nothing.
type NetworkCode struct {
	Values []float64
}

// NewNetworkCode returns a code holding a copy of values.
func NewNetworkCode(values []float64) *NetworkCode {
	return &NetworkCode{Values: append([]float64(nil), values...)}
}

// NewNetworkCodeFromVec copies a gonum vector into a new code.
func NewNetworkCodeFromVec(v mat.Vector) *NetworkCode {
	values := make([]float64, v.Len())
	for i := range values {
		values[i] = v.AtVec(i)
	}
	return &NetworkCode{Values: values}
}

// Len returns the number of values in the code.
func (c *NetworkCode) Len() int {
	return len(c.Values)
}

// Copy returns a deep copy of the code.
func (c *NetworkCode) Copy() *NetworkCode {
	return NewNetworkCode(c.Values)
}

// Vec returns the code as a gonum vector. The vector owns its own copy of the data.
func (c *NetworkCode) Vec() *mat.VecDense {
	return mat.NewVecDense(len(c.Values), append([]float64(nil), c.Values...))
}

// CodeLen returns the number of values in the code of a network with the given
// topology: sum over l >= 1 of size(l) * (1 + size(l-1)).
func CodeLen(layerSizes []int) int {
	n := 0
	for l := 1; l < len(layerSizes); l++ {
		n += layerSizes[l] * (1 + layerSizes[l-1])
	}
	return n
}

// CodeLen returns the code length for the network's current topology.
func (net *Network) CodeLen() int {
	return CodeLen(net.Topology())
}

// ExportCode snapshots the network's thresholds and weights into a new code.
func ExportCode(net *Network) *NetworkCode {
	values := make([]float64, 0, net.CodeLen())
	for l := 1; l < len(net.layers); l++ {
		for _, n := range net.layers[l].Neurons {
			values = append(values, n.Threshold)
			for _, in := range n.Incoming {
				values = append(values, in.Weight)
			}
		}
	}
	return &NetworkCode{Values: values}
}

// ImportCode overwrites every threshold and weight of net from code, in the same
// order ExportCode writes them. A code whose length does not match the network's
// topology is rejected with ErrInvariantViolation before anything is written.
func ImportCode(net *Network, code *NetworkCode) error {
	if code == nil {
		return fmt.Errorf("%w: nil code", ErrInvalidArgument)
	}
	if want := net.CodeLen(); code.Len() != want {
		return fmt.Errorf("%w: code has %d values, topology %v needs %d", ErrInvariantViolation, code.Len(), net.Topology(), want)
	}

	i := 0
	for l := 1; l < len(net.layers); l++ {
		neurons := net.layers[l].Neurons
		for j := range neurons {
			n := &neurons[j]
			n.Threshold = code.Values[i]
			i++
			for k := range n.Incoming {
				n.Incoming[k].Weight = code.Values[i]
				i++
			}
		}
	}
	return nil
}
