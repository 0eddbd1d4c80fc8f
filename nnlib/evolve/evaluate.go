package evolve

import (
	"fmt"
	"sort"

	"github.com/baldhumanity/nnlib-go/nnlib"
)

// ScoreFunc scores a network whose parameters have just been imported from a genome.
type ScoreFunc func(net *nnlib.Network) (float64, error)

// Evaluate imports every genome's code into net in key order and stores the
// score as the genome's fitness. net is reused for all genomes, so it must have
// the topology the codes were laid out for; a mismatch is reported as
// nnlib.ErrInvariantViolation.
func Evaluate(net *nnlib.Network, genomes map[int]*Genome, score ScoreFunc) error {
	keys := make([]int, 0, len(genomes))
	for k := range genomes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, key := range keys {
		g := genomes[key]
		if err := nnlib.ImportCode(net, g.Code); err != nil {
			return fmt.Errorf("genome %d: %w", key, err)
		}
		fitness, err := score(net)
		if err != nil {
			return fmt.Errorf("genome %d: scoring failed: %w", key, err)
		}
		g.Fitness = fitness
	}
	return nil
}

// FitnessFor adapts a ScoreFunc into a FitnessFunc that evaluates on net.
func FitnessFor(net *nnlib.Network, score ScoreFunc) FitnessFunc {
	return func(genomes map[int]*Genome) error {
		return Evaluate(net, genomes, score)
	}
}
