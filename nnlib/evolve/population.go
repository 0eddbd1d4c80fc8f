package evolve

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/baldhumanity/nnlib-go/nnlib"
)

// FitnessFunc is the type for the function provided by the user to evaluate genome fitness.
// It takes the current generation of genomes and should update their Fitness field.
type FitnessFunc func(genomes map[int]*Genome) error

// Population holds the state of the evolutionary search.
type Population struct {
	Config       *nnlib.Config
	Population   map[int]*Genome // Current generation of genomes (maps genome key -> genome)
	Reproduction *Reproduction
	Stagnation   *Stagnation
	Generation   int
	BestGenome   *Genome   // Best genome found so far
	Out          io.Writer // Progress reports; defaults to os.Stdout

	criterion func([]float64) float64
}

// NewPopulation creates a Population and its first generation.
// If rng is nil a generator is seeded from config.Network.Seed, or from the
// clock when the seed is 0.
func NewPopulation(config *nnlib.Config, rng *rand.Rand) (*Population, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Evolution.PopSize <= 0 {
		return nil, fmt.Errorf("config error: pop_size must be positive to build a population")
	}
	criterion, ok := StatFunctions[config.Evolution.FitnessCriterion]
	if !ok {
		return nil, fmt.Errorf("invalid fitness_criterion in config: %s", config.Evolution.FitnessCriterion)
	}
	if rng == nil {
		seed := config.Network.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	reproduction := NewReproduction(&config.Evolution, config.Network.LayerSizes, rng)
	initialPopulation, err := reproduction.CreateNewPopulation(config.Evolution.PopSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial population: %w", err)
	}

	return &Population{
		Config:       config,
		Population:   initialPopulation,
		Reproduction: reproduction,
		Stagnation:   NewStagnation(&config.Evolution),
		Out:          os.Stdout,
		criterion:    criterion,
	}, nil
}

// RunGeneration executes a single generation of the search.
// Returns the winning genome if the fitness threshold is met this generation, otherwise nil.
func (p *Population) RunGeneration(fitnessFunc FitnessFunc) (*Genome, error) {
	p.Generation++
	genStartTime := time.Now()
	fmt.Fprintf(p.Out, "****** Generation %d ******\n", p.Generation)

	if len(p.Population) == 0 {
		return p.BestGenome, fmt.Errorf("population is empty in generation %d", p.Generation)
	}

	// 1. Evaluate Fitness
	if err := fitnessFunc(p.Population); err != nil {
		return nil, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation, err)
	}

	// 2. Track Best Genome & Check Termination Condition
	currentBest := p.findBestGenome()
	if p.BestGenome == nil || currentBest.Fitness > p.BestGenome.Fitness {
		p.BestGenome = currentBest.Copy()
		fmt.Fprintf(p.Out, " New best genome found! Key: %d, Fitness: %.4f\n", p.BestGenome.Key, p.BestGenome.Fitness)
	}

	fitnesses := p.fitnesses()
	fmt.Fprintf(p.Out, " Best of generation %d: Key: %d, Fitness: %.4f (mean %.4f, stdev %.4f)\n",
		p.Generation, currentBest.Key, currentBest.Fitness, Mean(fitnesses), Stdev(fitnesses))

	if !p.Config.Evolution.NoFitnessTermination {
		if p.criterion(fitnesses) >= p.Config.Evolution.FitnessThreshold {
			return p.BestGenome, nil
		}
	}

	// 3. Stagnation
	stagnant := p.Stagnation.Update(currentBest.Fitness, p.Generation)

	// 4. Reproduce
	var (
		newPopulation map[int]*Genome
		err           error
	)
	if stagnant && p.Config.Evolution.ResetOnStagnation {
		fmt.Fprintf(p.Out, " No improvement for %d generations, restarting population.\n", p.Generation-p.Stagnation.LastImproved)
		newPopulation, err = p.Reproduction.Restart(p.Population, p.Config.Evolution.PopSize)
		p.Stagnation.Reset(p.Generation)
	} else {
		newPopulation, err = p.Reproduction.Reproduce(p.Population, p.Config.Evolution.PopSize)
	}
	if err != nil {
		return p.BestGenome, fmt.Errorf("reproduction failed in generation %d: %w", p.Generation, err)
	}
	p.Population = newPopulation

	fmt.Fprintf(p.Out, "Generation %d finished in %s\n\n", p.Generation, time.Since(genStartTime))
	return nil, nil
}

// Run executes generations until the fitness threshold is met or n generations
// have run. It returns the best genome found and whether it met the threshold.
func (p *Population) Run(fitnessFunc FitnessFunc, n int) (*Genome, bool, error) {
	for i := 0; i < n; i++ {
		winner, err := p.RunGeneration(fitnessFunc)
		if err != nil {
			return p.BestGenome, false, err
		}
		if winner != nil {
			return winner, true, nil
		}
	}
	return p.BestGenome, false, nil
}

// findBestGenome finds the genome with the highest fitness in the current
// population, preferring the lowest key on ties.
func (p *Population) findBestGenome() *Genome {
	var best *Genome
	maxFitness := math.Inf(-1)

	for _, key := range p.sortedKeys() {
		g := p.Population[key]
		if best == nil || g.Fitness > maxFitness {
			maxFitness = g.Fitness
			best = g
		}
	}
	return best
}

func (p *Population) fitnesses() []float64 {
	values := make([]float64, 0, len(p.Population))
	for _, g := range p.Population {
		values = append(values, g.Fitness)
	}
	return values
}

func (p *Population) sortedKeys() []int {
	keys := make([]int, 0, len(p.Population))
	for k := range p.Population {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
