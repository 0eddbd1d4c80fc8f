package evolve

import (
	"io"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/nnlib-go/nnlib"
)

var xorInputs = [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
var xorOutputs = []float64{0, 1, 1, 0}

func testConfig() *nnlib.Config {
	return &nnlib.Config{
		Network: nnlib.NetworkConfig{LayerSizes: []int{2, 3, 1}, Seed: 1},
		Evolution: nnlib.EvolutionConfig{
			PopSize:           20,
			FitnessCriterion:  "max",
			FitnessThreshold:  100,
			Elitism:           2,
			SurvivalThreshold: 0.2,
			WeightMutateRate:  0.8,
			WeightMutatePower: 0.5,
			WeightReplaceRate: 0.1,
			WeightMinValue:    -30,
			WeightMaxValue:    30,
			MaxStagnation:     15,
		},
	}
}

func xorScore(net *nnlib.Network) (float64, error) {
	sse := 0.0
	for i, in := range xorInputs {
		out, err := net.Activate(in)
		if err != nil {
			return 0, err
		}
		d := out[0] - xorOutputs[i]
		sse += d * d
	}
	return 4 - sse, nil
}

func newTestPopulation(t *testing.T, config *nnlib.Config) *Population {
	t.Helper()
	p, err := NewPopulation(config, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	p.Out = io.Discard
	return p
}

func TestStats(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, 0.0, Stdev([]float64{5}))
	assert.InDelta(t, math.Sqrt(32.0/7.0), Stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, math.Inf(-1), MaxFloat(nil))
	assert.Equal(t, math.Inf(1), MinFloat(nil))
	assert.Equal(t, 9.0, MaxFloat([]float64{2, 9, -1}))
	assert.Equal(t, -1.0, MinFloat([]float64{2, 9, -1}))
	assert.Equal(t, 5.0, clamp(7, -5, 5))
	assert.Equal(t, -5.0, clamp(-7, -5, 5))

	for _, name := range []string{"max", "min", "mean"} {
		assert.Contains(t, StatFunctions, name)
	}
}

func TestGenomeCrossover(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p1 := NewGenome(1, nnlib.NewNetworkCode([]float64{1, 1, 1, 1, 1, 1, 1, 1}))
	p2 := NewGenome(2, nnlib.NewNetworkCode([]float64{2, 2, 2, 2, 2, 2, 2, 2}))

	child := NewGenome(3, nil)
	require.NoError(t, child.ConfigureCrossover(p1, p2, rng))
	require.Equal(t, 8, child.Code.Len())
	for _, v := range child.Code.Values {
		assert.Contains(t, []float64{1, 2}, v)
	}

	short := NewGenome(4, nnlib.NewNetworkCode([]float64{1}))
	err := child.ConfigureCrossover(p1, short, rng)
	assert.ErrorIs(t, err, nnlib.ErrInvariantViolation)
}

func TestGenomeMutate(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	config := testConfig().Evolution

	config.WeightMutateRate, config.WeightReplaceRate = 0, 0
	g := NewGenome(1, nnlib.NewNetworkCode([]float64{0.5, -2, 100}))
	g.Mutate(&config, rng)
	assert.Equal(t, []float64{0.5, -2, 100}, g.Code.Values)

	config.WeightMutateRate, config.WeightMutatePower = 1, 0
	g.Mutate(&config, rng)
	assert.Equal(t, []float64{0.5, -2, 30}, g.Code.Values)

	config.WeightMutateRate, config.WeightReplaceRate = 0, 1
	config.WeightMinValue, config.WeightMaxValue = -1, 1
	g.Mutate(&config, rng)
	for _, v := range g.Code.Values {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestGenomeCopy(t *testing.T) {
	g := NewGenome(1, nnlib.NewNetworkCode([]float64{1, 2}))
	g.Fitness = 3
	cp := g.Copy()
	cp.Code.Values[0] = 9
	assert.Equal(t, 1.0, g.Code.Values[0])
	assert.Equal(t, 3.0, cp.Fitness)
	assert.Equal(t, "Genome(Key: 1, Fitness: 3.0000, Values: 2)", g.String())
}

func TestCreateNewPopulation(t *testing.T) {
	config := testConfig()
	r := NewReproduction(&config.Evolution, config.Network.LayerSizes, rand.New(rand.NewSource(1)))

	pop, err := r.CreateNewPopulation(10)
	require.NoError(t, err)
	require.Len(t, pop, 10)

	for key := 1; key <= 10; key++ {
		g, ok := pop[key]
		require.True(t, ok, "missing genome %d", key)
		require.Equal(t, 13, g.Code.Len())

		// Fresh networks: threshold 0 followed by weights in [0, 1.99].
		net, err := r.NewNetwork()
		require.NoError(t, err)
		require.NoError(t, nnlib.ImportCode(net, g.Code))
		for l := 1; l < net.NumLayers(); l++ {
			layer, _ := net.Layer(l)
			for _, n := range layer.Neurons {
				assert.Zero(t, n.Threshold)
				for _, in := range n.Incoming {
					assert.GreaterOrEqual(t, in.Weight, 0.0)
					assert.LessOrEqual(t, in.Weight, 1.99)
				}
			}
		}
	}
}

func TestReproduceKeepsElitesAndSize(t *testing.T) {
	config := testConfig()
	r := NewReproduction(&config.Evolution, config.Network.LayerSizes, rand.New(rand.NewSource(1)))
	pop, err := r.CreateNewPopulation(20)
	require.NoError(t, err)
	for key, g := range pop {
		g.Fitness = float64(key)
	}

	next, err := r.Reproduce(pop, 20)
	require.NoError(t, err)
	require.Len(t, next, 20)

	// Elitism 2: the two fittest genomes carry over untouched.
	assert.Same(t, pop[20], next[20])
	assert.Same(t, pop[19], next[19])

	// Survival threshold 0.2 of 20: parents come from the top four.
	for key, parents := range r.Ancestors {
		if key == 19 || key == 20 {
			continue
		}
		require.Len(t, parents, 2)
		for _, parent := range parents {
			assert.GreaterOrEqual(t, parent, 17)
		}
		assert.Equal(t, 13, next[key].Code.Len())
	}

	_, err = r.Reproduce(map[int]*Genome{}, 20)
	assert.Error(t, err)
}

func TestStagnationUpdate(t *testing.T) {
	config := testConfig().Evolution
	config.MaxStagnation = 2
	s := NewStagnation(&config)

	assert.False(t, s.Update(1, 1))
	assert.False(t, s.Update(1, 2))
	assert.True(t, s.Update(0.5, 3))
	assert.False(t, s.Update(2, 4))
	assert.Equal(t, 4, s.LastImproved)
	assert.Equal(t, []float64{1, 1, 0.5, 2}, s.FitnessHistory)

	s.Reset(10)
	assert.False(t, s.Update(0, 11))
}

func TestEvaluate(t *testing.T) {
	config := testConfig()
	p := newTestPopulation(t, config)

	net, err := p.Reproduction.NewNetwork()
	require.NoError(t, err)
	require.NoError(t, Evaluate(net, p.Population, xorScore))
	for _, g := range p.Population {
		assert.Greater(t, g.Fitness, 0.0)
		assert.Less(t, g.Fitness, 4.0)
	}

	wrong, err := nnlib.NewNetwork([]int{2, 2, 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	err = Evaluate(wrong, p.Population, xorScore)
	assert.ErrorIs(t, err, nnlib.ErrInvariantViolation)
}

func TestNewPopulationInvalid(t *testing.T) {
	config := testConfig()
	config.Evolution.PopSize = 0
	_, err := NewPopulation(config, nil)
	assert.Error(t, err)

	config = testConfig()
	config.Network.LayerSizes = nil
	_, err = NewPopulation(config, nil)
	assert.Error(t, err)
}

func TestRunGenerationImproves(t *testing.T) {
	config := testConfig()
	p := newTestPopulation(t, config)
	net, err := p.Reproduction.NewNetwork()
	require.NoError(t, err)
	fitness := FitnessFor(net, xorScore)

	prevBest := math.Inf(-1)
	for i := 1; i <= 10; i++ {
		winner, err := p.RunGeneration(fitness)
		require.NoError(t, err)
		assert.Nil(t, winner)
		assert.Equal(t, i, p.Generation)
		require.Len(t, p.Population, config.Evolution.PopSize)
		require.NotNil(t, p.BestGenome)
		assert.GreaterOrEqual(t, p.BestGenome.Fitness, prevBest)
		prevBest = p.BestGenome.Fitness
	}

	// The best code reproduces its recorded fitness when imported again.
	require.NoError(t, nnlib.ImportCode(net, p.BestGenome.Code))
	score, err := xorScore(net)
	require.NoError(t, err)
	assert.InDelta(t, p.BestGenome.Fitness, score, 1e-12)
}

func TestRunGenerationThreshold(t *testing.T) {
	config := testConfig()
	config.Evolution.FitnessThreshold = 0
	p := newTestPopulation(t, config)
	net, err := p.Reproduction.NewNetwork()
	require.NoError(t, err)

	winner, solved, err := p.Run(FitnessFor(net, xorScore), 5)
	require.NoError(t, err)
	assert.True(t, solved)
	require.NotNil(t, winner)
	assert.Equal(t, 1, p.Generation)
	assert.Equal(t, p.BestGenome, winner)
}

func TestRunGenerationNoTermination(t *testing.T) {
	config := testConfig()
	config.Evolution.FitnessThreshold = 0
	config.Evolution.NoFitnessTermination = true
	p := newTestPopulation(t, config)
	net, err := p.Reproduction.NewNetwork()
	require.NoError(t, err)

	_, solved, err := p.Run(FitnessFor(net, xorScore), 3)
	require.NoError(t, err)
	assert.False(t, solved)
	assert.Equal(t, 3, p.Generation)
}

func TestRunGenerationRestartsOnStagnation(t *testing.T) {
	config := testConfig()
	config.Evolution.PopSize = 6
	config.Evolution.Elitism = 1
	config.Evolution.MaxStagnation = 2
	config.Evolution.ResetOnStagnation = true
	config.Evolution.NoFitnessTermination = true
	p := newTestPopulation(t, config)

	flat := func(genomes map[int]*Genome) error {
		for _, g := range genomes {
			g.Fitness = 1
		}
		return nil
	}

	for i := 0; i < 2; i++ {
		_, err := p.RunGeneration(flat)
		require.NoError(t, err)
	}
	before := p.Reproduction.NextGenomeKey
	elite := sortByFitness(p.Population)[0]

	_, err := p.RunGeneration(flat)
	require.NoError(t, err)

	require.Len(t, p.Population, 6)
	assert.Same(t, elite, p.Population[elite.Key])
	for key := range p.Population {
		if key == elite.Key {
			continue
		}
		assert.GreaterOrEqual(t, key, before)
		assert.Empty(t, p.Reproduction.Ancestors[key])
	}
	assert.Equal(t, 3, p.Stagnation.LastImproved)
}

func TestRunGenerationPropagatesErrors(t *testing.T) {
	p := newTestPopulation(t, testConfig())
	wrong, err := nnlib.NewNetwork([]int{3, 1}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = p.RunGeneration(FitnessFor(wrong, xorScore))
	assert.ErrorIs(t, err, nnlib.ErrInvariantViolation)
}
