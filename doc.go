// Package nnlib provides a small feedforward neural network evaluation engine
// together with a flat encoding of all of its tunable parameters.
//
// A Network is a stack of fully connected sigmoid layers built from a list of
// per-layer sizes. Its thresholds and weights can be exported to a
// NetworkCode, a flat vector in a fixed canonical order, and overwritten from
// one. This is the hook an external optimizer such as a genetic search uses:
// mutate the vector, import it, evaluate the network.
//
// The engine lives in the nnlib subpackage; nnlib/evolve contains a genetic
// search over network codes.
//
// Basic usage:
//
//	rng := rand.New(rand.NewSource(1))
//	net, err := nnlib.NewNetwork([]int{2, 3, 1}, rng)
//	if err != nil {
//		log.Fatalf("Error building network: %v", err)
//	}
//
//	code := nnlib.ExportCode(net)
//	for i := range code.Values {
//		code.Values[i] += rng.NormFloat64() * 0.1
//	}
//	if err := nnlib.ImportCode(net, code); err != nil {
//		log.Fatalf("Error importing code: %v", err)
//	}
//
//	outputs, err := net.Activate([]float64{0.5, 0.5})
//	if err != nil {
//		log.Fatalf("Error activating network: %v", err)
//	}
//	fmt.Println(outputs)
package nnlib
