package evolve

import (
	"fmt"
	"math/rand"

	"github.com/baldhumanity/nnlib-go/nnlib"
)

// Genome is one candidate parameter vector in the population.
type Genome struct {
	Key     int                // Unique identifier for this genome.
	Code    *nnlib.NetworkCode // Thresholds and weights in canonical layout.
	Fitness float64            // Fitness score assigned by the FitnessFunc.
}

// NewGenome creates a genome owning code.
func NewGenome(key int, code *nnlib.NetworkCode) *Genome {
	return &Genome{
		Key:  key,
		Code: code,
	}
}

// Copy creates a deep copy of the genome.
func (g *Genome) Copy() *Genome {
	return &Genome{
		Key:     g.Key,
		Code:    g.Code.Copy(),
		Fitness: g.Fitness,
	}
}

// String returns a string representation of the genome.
func (g *Genome) String() string {
	return fmt.Sprintf("Genome(Key: %d, Fitness: %.4f, Values: %d)", g.Key, g.Fitness, g.Code.Len())
}

// ConfigureCrossover fills g with a uniform crossover of two parents of the same
// topology: each value comes from either parent with equal probability.
func (g *Genome) ConfigureCrossover(parent1, parent2 *Genome, rng *rand.Rand) error {
	if parent1.Code.Len() != parent2.Code.Len() {
		return fmt.Errorf("%w: parents %d and %d have codes of length %d and %d",
			nnlib.ErrInvariantViolation, parent1.Key, parent2.Key, parent1.Code.Len(), parent2.Code.Len())
	}
	values := make([]float64, parent1.Code.Len())
	for i := range values {
		if rng.Float64() < 0.5 {
			values[i] = parent1.Code.Values[i]
		} else {
			values[i] = parent2.Code.Values[i]
		}
	}
	g.Code = &nnlib.NetworkCode{Values: values}
	return nil
}

// Mutate perturbs or replaces each value of the code according to the config.
func (g *Genome) Mutate(config *nnlib.EvolutionConfig, rng *rand.Rand) {
	for i, v := range g.Code.Values {
		g.Code.Values[i] = mutateFloatAttribute(v, config, rng)
	}
}

func mutateFloatAttribute(value float64, config *nnlib.EvolutionConfig, rng *rand.Rand) float64 {
	r := rng.Float64()
	if r < config.WeightMutateRate {
		value += rng.NormFloat64() * config.WeightMutatePower
		return clamp(value, config.WeightMinValue, config.WeightMaxValue)
	}
	if r < config.WeightMutateRate+config.WeightReplaceRate {
		return config.WeightMinValue + rng.Float64()*(config.WeightMaxValue-config.WeightMinValue)
	}
	return value
}
