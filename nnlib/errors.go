package nnlib

import "errors"

// ErrInvalidArgument is returned when a caller breaks an operation's
// precondition: a buffer of the wrong length, an empty topology, a missing
// random source.
var ErrInvalidArgument = errors.New("nnlib: invalid argument")

// ErrInvariantViolation is returned when two structures that must agree do not,
// most notably a NetworkCode paired with a Network of a different topology.
// It signals a programming error rather than bad input data.
var ErrInvariantViolation = errors.New("nnlib: internal invariant violation")
