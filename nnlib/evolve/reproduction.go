package evolve

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/baldhumanity/nnlib-go/nnlib"
)

// Reproduction creates new genomes, either from freshly built networks or
// through crossover and mutation.
type Reproduction struct {
	Config        *nnlib.EvolutionConfig
	Topology      []int         // Layer sizes every genome's code is laid out for
	NextGenomeKey int           // State for the next genome key
	Ancestors     map[int][]int // Map genome key -> parent keys (for tracking lineage)

	rng *rand.Rand
}

// NewReproduction creates a new reproduction manager.
func NewReproduction(config *nnlib.EvolutionConfig, topology []int, rng *rand.Rand) *Reproduction {
	return &Reproduction{
		Config:        config,
		Topology:      append([]int(nil), topology...),
		NextGenomeKey: 1,
		Ancestors:     make(map[int][]int),
		rng:           rng,
	}
}

func (r *Reproduction) getNextKey() int {
	key := r.NextGenomeKey
	r.NextGenomeKey++
	return key
}

// NewNetwork builds a network of the reproduction's topology with random weights.
func (r *Reproduction) NewNetwork() (*nnlib.Network, error) {
	return nnlib.NewNetwork(r.Topology, r.rng)
}

// newGenome seeds a genome with the code of a freshly constructed network.
func (r *Reproduction) newGenome() (*Genome, error) {
	net, err := r.NewNetwork()
	if err != nil {
		return nil, fmt.Errorf("failed to build network for new genome: %w", err)
	}
	key := r.getNextKey()
	r.Ancestors[key] = []int{}
	return NewGenome(key, nnlib.ExportCode(net)), nil
}

// CreateNewPopulation creates popSize genomes from scratch.
func (r *Reproduction) CreateNewPopulation(popSize int) (map[int]*Genome, error) {
	newGenomes := make(map[int]*Genome, popSize)
	for i := 0; i < popSize; i++ {
		g, err := r.newGenome()
		if err != nil {
			return nil, err
		}
		newGenomes[g.Key] = g
	}
	return newGenomes, nil
}

// Reproduce creates the next generation from an evaluated population.
// The top Elitism genomes survive unchanged; the rest of the slots are filled
// with mutated crossovers of parents drawn from the top SurvivalThreshold share.
func (r *Reproduction) Reproduce(population map[int]*Genome, popSize int) (map[int]*Genome, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("cannot reproduce an empty population")
	}

	oldMembers := sortByFitness(population)
	newPopulation := make(map[int]*Genome, popSize)
	newAncestors := make(map[int][]int, popSize)

	// Transfer elites.
	elitesTaken := 0
	for j := 0; j < r.Config.Elitism && j < len(oldMembers) && elitesTaken < popSize; j++ {
		elite := oldMembers[j]
		newPopulation[elite.Key] = elite
		newAncestors[elite.Key] = []int{elite.Key}
		elitesTaken++
	}
	spawn := popSize - elitesTaken

	// Determine parents for remaining spawn.
	survivalCutoff := int(math.Ceil(r.Config.SurvivalThreshold * float64(len(oldMembers))))
	survivalCutoff = max(survivalCutoff, 2) // Need at least two parents
	if survivalCutoff > len(oldMembers) {
		survivalCutoff = len(oldMembers)
	}
	parents := oldMembers[:survivalCutoff]

	for j := 0; j < spawn; j++ {
		parent1 := parents[r.rng.Intn(len(parents))]
		parent2 := parents[r.rng.Intn(len(parents))]
		if parent2.Fitness > parent1.Fitness {
			parent1, parent2 = parent2, parent1
		}

		child := NewGenome(r.getNextKey(), nil)
		if err := child.ConfigureCrossover(parent1, parent2, r.rng); err != nil {
			return nil, fmt.Errorf("crossover failed: %w", err)
		}
		child.Mutate(r.Config, r.rng)

		newPopulation[child.Key] = child
		newAncestors[child.Key] = []int{parent1.Key, parent2.Key}
	}
	r.Ancestors = newAncestors

	return newPopulation, nil
}

// Restart keeps the Elitism best genomes of population and replaces everything
// else with genomes seeded from fresh networks.
func (r *Reproduction) Restart(population map[int]*Genome, popSize int) (map[int]*Genome, error) {
	newPopulation := make(map[int]*Genome, popSize)
	newAncestors := make(map[int][]int, popSize)
	for j, g := range sortByFitness(population) {
		if j >= r.Config.Elitism || j >= popSize {
			break
		}
		newPopulation[g.Key] = g
		newAncestors[g.Key] = []int{g.Key}
	}
	for len(newPopulation) < popSize {
		g, err := r.newGenome()
		if err != nil {
			return nil, err
		}
		newPopulation[g.Key] = g
		newAncestors[g.Key] = []int{}
	}
	r.Ancestors = newAncestors
	return newPopulation, nil
}

// sortByFitness returns the genomes ordered by descending fitness, ties broken
// by ascending key so the order does not depend on map iteration.
func sortByFitness(population map[int]*Genome) []*Genome {
	members := make([]*Genome, 0, len(population))
	for _, g := range population {
		members = append(members, g)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Fitness != members[j].Fitness {
			return members[i].Fitness > members[j].Fitness
		}
		return members[i].Key < members[j].Key
	})
	return members
}
