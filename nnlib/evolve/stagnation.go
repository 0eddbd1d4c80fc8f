package evolve

import (
	"math"

	"github.com/baldhumanity/nnlib-go/nnlib"
)

// Stagnation tracks whether the population's best fitness is still improving.
type Stagnation struct {
	Config         *nnlib.EvolutionConfig
	FitnessHistory []float64 // Best fitness of each generation seen so far
	BestFitness    float64
	LastImproved   int // Last generation where fitness improved
}

// NewStagnation creates a new stagnation tracker.
func NewStagnation(config *nnlib.EvolutionConfig) *Stagnation {
	return &Stagnation{
		Config:      config,
		BestFitness: math.Inf(-1),
	}
}

// Update records the best fitness of generation and reports whether the
// population has gone MaxStagnation generations without improvement.
func (s *Stagnation) Update(fitness float64, generation int) bool {
	s.FitnessHistory = append(s.FitnessHistory, fitness)
	if fitness > s.BestFitness {
		s.BestFitness = fitness
		s.LastImproved = generation
	}
	return generation-s.LastImproved >= s.Config.MaxStagnation
}

// Reset restarts the stagnation window at generation.
func (s *Stagnation) Reset(generation int) {
	s.LastImproved = generation
}
