package ga

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	config := DefaultConfig()
	config.PopulationSize = 4
	config.PracticalTurns = 2
	config.SubjectsPerTurn = 2
	config.DaysPerWeek = 2
	config.BlocksPerDay = 4
	config.Generations = 10
	config.Selection = TournamentSelection
	config.Crossover = SinglePointDayCrossover
	config.CrossoverProbability = 1
	config.Mutation = SwapMutation
	config.MutationProbability = 1
	config.Elitism = true
	config.Sharing = false
	return config
}

func assertNonIncreasing(t *testing.T, history []int) {
	for i := 1; i < len(history); i++ {
		assert.LessOrEqual(t, history[i], history[i-1], "generation %d", i)
	}
}

func TestEvolve(t *testing.T) {
	t.Run("Test 1", func(t *testing.T) {
		// Arrange
		config := smallConfig()
		rng := newRng(42)
		population, err := model.CreatePopulation(rng, config.PopulationSpec())
		require.NoError(t, err)
		algorithm, err := NewGeneticAlgorithm(config, rng, nil)
		require.NoError(t, err)

		// Act
		result, err := algorithm.Evolve(population)

		// Assert (8 blocks a week cannot hold 8 blocks of a subject and a daily break, so no optimum exists)
		require.NoError(t, err)
		assert.False(t, result.GlobalOptimum)
		assert.Equal(t, config.Generations, result.Generations)
		assert.Len(t, result.BestFitnessPerGeneration, config.Generations)
		assertNonIncreasing(t, result.BestFitnessPerGeneration)
		assert.Equal(t, result.BestFitness, result.BestFitnessPerGeneration[len(result.BestFitnessPerGeneration)-1])
		assert.Equal(t, result.BestFitness, Evaluate(result.Best))
	})

	t.Run("Test 2", func(t *testing.T) {
		// Arrange
		for _, selection := range SelectionTypes {
			for _, crossover := range CrossoverTypes {
				for _, mutation := range MutationTypes {
					for _, sharing := range []bool{false, true} {
						config := smallConfig()
						config.Generations = 5
						config.Selection = selection
						config.Crossover = crossover
						config.Mutation = mutation
						config.Sharing = sharing
						config.CrossoverProbability = 0.7
						config.MutationProbability = 0.5
						rng := newRng(uint64(len(selection) + len(crossover) + len(mutation)))
						population, err := model.CreatePopulation(rng, config.PopulationSpec())
						require.NoError(t, err)
						algorithm, err := NewGeneticAlgorithm(config, rng, nil)
						require.NoError(t, err)

						// Act
						result, err := algorithm.Evolve(population)

						// Assert
						require.NoError(t, err)
						assert.Len(t, result.BestFitnessPerGeneration, config.Generations)
						assertNonIncreasing(t, result.BestFitnessPerGeneration)
						assert.Equal(t, result.BestFitness, Evaluate(result.Best))
					}
				}
			}
		}
	})

	t.Run("Test 3", func(t *testing.T) {
		// Arrange
		config := smallConfig()
		rng := newRng(3)
		population, err := model.CreatePopulation(rng, config.PopulationSpec())
		require.NoError(t, err)
		snapshot := population.Clone()
		algorithm, err := NewGeneticAlgorithm(config, rng, nil)
		require.NoError(t, err)

		// Act
		_, err = algorithm.Evolve(population)

		// Assert
		require.NoError(t, err)
		for i := range snapshot {
			assert.True(t, snapshot[i].Equal(population[i]), "the incoming population is never modified")
		}
	})
}

func TestEvolveGlobalOptimum(t *testing.T) {
	for _, sharing := range []bool{false, true} {
		// Arrange
		config := smallConfig()
		config.PopulationSize = 3
		config.DaysPerWeek = 4
		config.BlocksPerDay = 5
		config.Sharing = sharing
		optimum := optimalIndividual()
		other := uniformIndividual(model.Shape{Turns: 2, Days: 4, Blocks: 5}, A)
		population := model.Population{other, optimum, other.Clone()}
		algorithm, err := NewGeneticAlgorithm(config, newRng(1), nil)
		require.NoError(t, err)

		// Act
		result, err := algorithm.Evolve(population)

		// Assert
		require.NoError(t, err)
		assert.True(t, result.GlobalOptimum)
		assert.Zero(t, result.BestFitness)
		assert.Zero(t, result.Generations)
		assert.Empty(t, result.BestFitnessPerGeneration)
		assert.True(t, result.Best.Equal(optimum))

		// The best individual is an independent copy
		population[1][0][0][0] = X
		assert.Zero(t, Evaluate(result.Best))
	}
}

func TestEvolveErrors(t *testing.T) {
	t.Run("Test 1", func(t *testing.T) {
		// Arrange
		algorithm, err := NewGeneticAlgorithm(smallConfig(), newRng(1), nil)
		require.NoError(t, err)
		population := model.Population{
			uniformIndividual(model.Shape{Turns: 2, Days: 2, Blocks: 4}, A),
			uniformIndividual(model.Shape{Turns: 2, Days: 2, Blocks: 3}, A),
		}

		// Act
		_, err = algorithm.Evolve(population)

		// Assert
		assert.ErrorIs(t, err, model.ErrShapeMismatch)
	})

	t.Run("Test 2", func(t *testing.T) {
		// Arrange
		algorithm, err := NewGeneticAlgorithm(smallConfig(), newRng(1), nil)
		require.NoError(t, err)

		// Act
		_, err = algorithm.Evolve(model.Population{})

		// Assert
		assert.ErrorIs(t, err, model.ErrShapeMismatch)
	})

	t.Run("Test 3", func(t *testing.T) {
		// Arrange
		config := smallConfig()
		config.Mutation = InversionMutation
		algorithm, err := NewGeneticAlgorithm(config, newRng(1), nil)
		require.NoError(t, err)
		population := model.Population{uniformIndividual(model.Shape{Turns: 1, Days: 2, Blocks: 2}, A)}

		// Act
		_, err = algorithm.Evolve(population)

		// Assert
		var configErr *model.ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "BlocksPerDay", configErr.Field)
	})

	t.Run("Test 4", func(t *testing.T) {
		// Arrange
		config := smallConfig()
		config.Generations = 0

		// Act
		algorithm, err := NewGeneticAlgorithm(config, newRng(1), nil)

		// Assert
		assert.Nil(t, algorithm)
		assert.ErrorIs(t, err, model.ErrConfiguration)
	})
}

func TestEvolveLogsProgress(t *testing.T) {
	// Arrange
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))
	config := smallConfig()
	config.Generations = 3
	rng := newRng(5)
	population, err := model.CreatePopulation(rng, config.PopulationSpec())
	require.NoError(t, err)
	algorithm, err := NewGeneticAlgorithm(config, rng, logger)
	require.NoError(t, err)

	// Act
	_, err = algorithm.Evolve(population)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, buffer.String(), "generation evaluated")
	assert.Contains(t, buffer.String(), "generation=3")
	assert.Contains(t, buffer.String(), "best_fitness=")
}

func TestArgMin(t *testing.T) {
	assert.Equal(t, 1, argMin([]int{4, 2, 7, 2}))
	assert.Equal(t, 0, argMin([]float64{0.5}))
	assert.Equal(t, 2, argMin([]float64{3, 3, 1.5}))
}

func TestEvolveElitismIgnoresSharing(t *testing.T) {
	// Arrange
	crowded := model.Individual{{{A, X, A, B}}}             // Penalty 67, shared 134
	rare := model.Individual{{{C, D, X, model.Subject(5)}}} // Penalty 107, shared 107
	population := model.Population{crowded, crowded.Clone(), rare}
	shared, err := SharedFitness(population)
	require.NoError(t, err)
	require.Less(t, shared[2], shared[0])

	config := smallConfig()
	config.Generations = 1
	config.Sharing = true
	config.Elitism = true
	config.Selection = TournamentSelection
	config.TournamentSize = 64 // Always picks the lowest shared score
	config.Crossover = UniformBlockCrossover
	config.CrossoverProbability = 0
	config.MutationProbability = 0
	algorithm, err := NewGeneticAlgorithm(config, newRng(1), nil)
	require.NoError(t, err)

	// Act
	result, err := algorithm.Evolve(population)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{Evaluate(crowded)}, result.BestFitnessPerGeneration)
	assert.True(t, result.Best.Equal(crowded))
}

func TestEvolveWithoutCrossoverLeavesParentsIntact(t *testing.T) {
	for _, mutation := range MutationTypes {
		t.Run(string(mutation), func(t *testing.T) {
			// Arrange
			config := smallConfig()
			config.Generations = 1
			config.CrossoverProbability = 0
			config.Mutation = mutation
			config.MutationProbability = 1
			config.Elitism = false
			shape := model.Shape{Turns: config.PracticalTurns, Days: config.DaysPerWeek, Blocks: config.BlocksPerDay}
			population := model.Population{distinctIndividual(shape), distinctIndividual(shape), distinctIndividual(shape), distinctIndividual(shape)}
			snapshot := population.Clone()
			algorithm, err := NewGeneticAlgorithm(config, newRng(8), nil)
			require.NoError(t, err)

			// Act
			_, err = algorithm.Evolve(population)

			// Assert
			require.NoError(t, err)
			for i := range snapshot {
				assert.True(t, snapshot[i].Equal(population[i]), "offspring never share storage with their parents")
			}
		})
	}
}
