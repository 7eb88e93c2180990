package main

import (
	"encoding/csv"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/timetabling-ga/pkg/ga"
	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func smallConfig() ga.Config {
	config := ga.DefaultConfig()
	config.PopulationSize = 6
	config.PracticalTurns = 2
	config.SubjectsPerTurn = 2
	config.DaysPerWeek = 2
	config.BlocksPerDay = 4
	config.Generations = 4
	return config
}

func TestPadHistories(t *testing.T) {
	// Arrange
	histories := [][]int{{9, 7, 7, 5}, {8, 6}, {}}

	// Act
	padded := padHistories(histories)

	// Assert
	assert.Equal(t, [][]int{{9, 7, 7, 5}, {8, 6, 6, 6}, {0, 0, 0, 0}}, padded)
	assert.Equal(t, []int{8, 6}, histories[1], "histories are not modified")
}

func TestAverageHistories(t *testing.T) {
	assert.Equal(t, []float64{8, 6.5, 6.5}, averageHistories([][]int{{9, 7, 7}, {7, 6, 6}}))
	assert.Equal(t, []float64{}, averageHistories([][]int{}))
}

func TestGetExperiments(t *testing.T) {
	// Act
	experiments := getExperiments(elitismOptions["both"])

	// Assert
	assert.Len(t, experiments, len(ga.SelectionTypes)*len(ga.CrossoverTypes)*len(ga.MutationTypes)*2*2)
	ids := make(map[uuid.UUID]bool)
	for _, experiment := range experiments {
		ids[experiment.Id] = true
	}
	assert.Len(t, ids, len(experiments))
}

func TestRunExperiment(t *testing.T) {
	// Arrange
	config := smallConfig()
	experiment := Experiment{
		Id:        uuid.New(),
		Selection: ga.RankingSelection,
		Crossover: ga.UniformDayCrossover,
		Mutation:  ga.ScrambleMutation,
		Elitism:   true,
	}

	// Act
	result := runExperiment(config, experiment, 3, rand.New(rand.NewPCG(1, 2)), nil)

	// Assert (no optimum fits in 2 days of 4 blocks, so every trial runs)
	assert.Equal(t, 3, result.Trials)
	assert.Empty(t, result.Optima)
	assert.Len(t, result.AverageBestFitness, config.Generations)
	assert.Greater(t, result.BestFitness, 0)
	assert.Equal(t, result.BestFitness, ga.Evaluate(result.Best))
	for i := 1; i < len(result.AverageBestFitness); i++ {
		assert.LessOrEqual(t, result.AverageBestFitness[i], result.AverageBestFitness[i-1])
	}
}

func TestBenchmark(t *testing.T) {
	// Arrange
	experiments := getExperiments(elitismOptions["on"])[:5]

	// Act
	results := benchmark(smallConfig(), experiments, 2, 3, 99, nil)

	// Assert
	require.Len(t, results, len(experiments))
	for i, result := range results {
		assert.Equal(t, experiments[i], result.Experiment, "results keep the order of experiments")
		assert.Equal(t, 2, result.Trials)
	}
}

func TestOutput(t *testing.T) {
	experiment := Experiment{Id: uuid.New(), Selection: ga.TournamentSelection, Crossover: ga.SinglePointDayCrossover, Mutation: ga.SwapMutation, Elitism: true}
	results := []ExperimentResult{{
		Experiment:         experiment,
		Trials:             2,
		Best:               model.Individual{{{model.Subject(1), model.Break}}},
		BestFitness:        0,
		AverageBestFitness: []float64{12.5, 0},
		Optima: []GlobalOptimum{{
			Experiment: experiment,
			Trial:      2,
			Individual: model.Individual{{{model.Subject(1), model.Break}}},
		}},
	}}

	t.Run("Test 1", func(t *testing.T) {
		// Arrange
		out := filepath.Join(t.TempDir(), "benchmark")

		// Act
		toCsv(results, out)

		// Assert
		resultsFile, err := os.Open(out + "_results.csv")
		require.NoError(t, err)
		defer resultsFile.Close()
		records, err := csv.NewReader(resultsFile).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Average Best Fitness", records[0][9])
		assert.Equal(t, experiment.Id.String(), records[1][0])
		assert.Equal(t, "12.5", records[1][9])

		optimaFile, err := os.Open(out + "_optima.csv")
		require.NoError(t, err)
		defer optimaFile.Close()
		records, err = csv.NewReader(optimaFile).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Subject_1,Break", records[1][7])

		overallFile, err := os.Open(out + "_overall.csv")
		require.NoError(t, err)
		defer overallFile.Close()
		records, err = csv.NewReader(overallFile).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "0", records[1][6])
		assert.Equal(t, "Subject_1,Break", records[1][7])
	})

	t.Run("Test 2", func(t *testing.T) {
		// Arrange
		out := filepath.Join(t.TempDir(), "benchmark")

		// Act
		toXlsx(results, out)

		// Assert
		file, err := excelize.OpenFile(out + ".xlsx")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, []string{"Results", "Optima", "Overall"}, file.GetSheetList())

		rows, err := file.GetRows("Results")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "tournament", rows[1][1])

		rows, err = file.GetRows("Optima")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2", rows[1][6])
	})
}

func TestOverallBest(t *testing.T) {
	t.Run("Test 1", func(t *testing.T) {
		// Arrange
		individual := model.Individual{{{model.Subject(2), model.Break}}}
		results := []ExperimentResult{
			{Experiment: Experiment{Id: uuid.New()}, Best: individual, BestFitness: 40},
			{Experiment: Experiment{Id: uuid.New()}, Best: individual, BestFitness: 12},
			{Experiment: Experiment{Id: uuid.New()}, Best: individual, BestFitness: 12},
			{Experiment: Experiment{Id: uuid.New()}, BestFitness: -1}, // No trial completed a generation
		}

		// Act
		best, ok := overallBest(results)

		// Assert
		require.True(t, ok)
		assert.Equal(t, results[1].Experiment, best.Experiment)
		assert.Equal(t, 12, best.BestFitness)

		rows := overallSheet(results).rows
		require.Len(t, rows, 1)
		assert.Equal(t, 12, rows[0][6])
	})

	t.Run("Test 2", func(t *testing.T) {
		// Act
		_, ok := overallBest([]ExperimentResult{})

		// Assert
		assert.False(t, ok)
		assert.Empty(t, overallSheet(nil).rows)
	})
}

func TestFormatIndividual(t *testing.T) {
	individual := model.Individual{
		{{model.Subject(1), model.Break}, {model.Subject(2), model.Subject(2)}},
		{{model.Break, model.Subject(30)}, {model.Break, model.Break}},
	}

	assert.Equal(t, "Subject_1,Break;Subject_2,Subject_2|Break,Subject_30;Break,Break", formatIndividual(individual))
}
