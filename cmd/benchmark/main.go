package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/limaJavier/timetabling-ga/pkg/ga"
	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type OutputFormat string

const (
	csvFormat  OutputFormat = "csv"
	xlsxFormat OutputFormat = "xlsx"
)

var (
	validFormats   = []OutputFormat{csvFormat, xlsxFormat}
	elitismOptions = map[string][]bool{
		"on":   {true},
		"off":  {false},
		"both": {true, false},
	}
)

// Experiment is one point of the selection × crossover × mutation × elitism × sharing cross product
type Experiment struct {
	Id        uuid.UUID
	Selection ga.SelectionType
	Crossover ga.CrossoverType
	Mutation  ga.MutationType
	Elitism   bool
	Sharing   bool
}

func (experiment Experiment) String() string {
	return fmt.Sprintf("selection \"%v\", crossover \"%v\", mutation \"%v\", elitism \"%v\" and sharing \"%v\"",
		experiment.Selection, experiment.Crossover, experiment.Mutation, experiment.Elitism, experiment.Sharing)
}

type ExperimentResult struct {
	Experiment         Experiment
	Trials             int // Trials actually run; a global optimum ends the experiment early
	Best               model.Individual // Best individual over all trials
	BestFitness        int
	AverageBestFitness []float64
	Optima             []GlobalOptimum
}

type GlobalOptimum struct {
	Experiment Experiment
	Trial      int
	Individual model.Individual
}

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to a JSON file overriding the GA_* environment configuration")
	trialsPtr := flag.Int("trials", 30, "Number of trials per experiment, where 30 is the default")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Number of experiments run concurrently")
	elitismPtr := flag.String("elitism", "on", "Elitism settings to benchmark. Allowed values are: \"on\", \"off\" and \"both\", where \"on\" is the default")
	formatPtr := flag.String("format", "csv", "Output format. Allowed values are: \"csv\" and \"xlsx\", where \"csv\" is the default")
	outPtr := flag.String("out", "benchmark_results", "Output path without extension")
	verbosePtr := flag.Bool("verbose", false, "Log every generation of every trial to the Standard Error")
	flag.Parse()
	format := OutputFormat(strings.ToLower(*formatPtr))
	elitism := strings.ToLower(*elitismPtr)

	// Validate arguments
	if !slices.Contains(validFormats, format) {
		log.Fatalf("%v is not a valid format", format)
	} else if _, ok := elitismOptions[elitism]; !ok {
		log.Fatalf("%v is not a valid elitism setting", elitism)
	} else if *trialsPtr < 1 {
		log.Fatalf("trials must be at least 1: %v", *trialsPtr)
	} else if *workersPtr < 1 {
		log.Fatalf("workers must be at least 1: %v", *workersPtr)
	}

	config, err := ga.ConfigFromEnv()
	if err != nil {
		log.Fatalf("cannot read configuration from environment: %v", err)
	}
	if *configPathPtr != "" {
		if config, err = ga.ConfigFromJson(*configPathPtr, config); err != nil {
			log.Fatalf("cannot read configuration file: %v", err)
		}
	}

	var logger *slog.Logger
	if *verbosePtr {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	experiments := getExperiments(elitismOptions[elitism])
	results := benchmark(config, experiments, *trialsPtr, *workersPtr, seed, logger)

	switch format {
	case csvFormat:
		toCsv(results, *outPtr)
	case xlsxFormat:
		toXlsx(results, *outPtr)
	}

	optima := lo.SumBy(results, func(result ExperimentResult) int { return len(result.Optima) })
	fmt.Printf("Experiments: %v\n", len(results))
	fmt.Printf("Global optima: %v\n", optima)
	if best, ok := overallBest(results); ok {
		fmt.Printf("Overall best fitness: %v (%v)\n", best.BestFitness, best.Experiment)
	}
	fmt.Printf("Seed: %v\n", seed)
}

func getExperiments(elitism []bool) []Experiment {
	experiments := make([]Experiment, 0)
	for _, selection := range ga.SelectionTypes {
		for _, crossover := range ga.CrossoverTypes {
			for _, mutation := range ga.MutationTypes {
				for _, elite := range elitism {
					for _, sharing := range []bool{true, false} {
						experiments = append(experiments, Experiment{
							Id:        uuid.New(),
							Selection: selection,
							Crossover: crossover,
							Mutation:  mutation,
							Elitism:   elite,
							Sharing:   sharing,
						})
					}
				}
			}
		}
	}
	return experiments
}

// benchmark runs the experiments on a bounded set of workers; results keep the order of experiments
func benchmark(config ga.Config, experiments []Experiment, trials, workers int, seed uint64, logger *slog.Logger) []ExperimentResult {
	type job struct {
		index      int
		experiment Experiment
	}
	type outcome struct {
		index  int
		result ExperimentResult
	}

	jobs := make(chan job)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for range min(workers, len(experiments)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for next := range jobs {
				// Every experiment owns its random source
				rng := rand.New(rand.NewPCG(seed, uint64(next.index)))
				outcomes <- outcome{next.index, runExperiment(config, next.experiment, trials, rng, logger)}
			}
		}()
	}

	go func() {
		for i, experiment := range experiments {
			jobs <- job{i, experiment}
		}
		close(jobs)
		wg.Wait()
		close(outcomes)
	}()

	results := make([]ExperimentResult, len(experiments))
	finished := 0
	for done := range outcomes {
		finished++
		results[done.index] = done.result
		fmt.Printf("Benchmarked experiment %v out of %v with %v\n", finished, len(experiments), done.result.Experiment)
	}
	return results
}

func runExperiment(config ga.Config, experiment Experiment, trials int, rng *rand.Rand, logger *slog.Logger) ExperimentResult {
	config.Selection = experiment.Selection
	config.Crossover = experiment.Crossover
	config.Mutation = experiment.Mutation
	config.Elitism = experiment.Elitism
	config.Sharing = experiment.Sharing

	if logger != nil {
		logger = logger.With("experiment", experiment.Id)
	}

	algorithm, err := ga.NewGeneticAlgorithm(config, rng, logger)
	if err != nil {
		log.Fatalf("cannot build genetic algorithm for %v: %v", experiment, err)
	}

	result := ExperimentResult{
		Experiment:  experiment,
		BestFitness: -1,
	}
	histories := make([][]int, 0, trials)

	for trial := range trials {
		population, err := model.CreatePopulation(rng, config.PopulationSpec())
		if err != nil {
			log.Fatalf("cannot create population: %v", err)
		}

		run, err := algorithm.Evolve(population)
		if err != nil {
			log.Fatalf("an error occurred during trial %v of %v: %v", trial+1, experiment, err)
		}

		histories = append(histories, run.BestFitnessPerGeneration)
		result.Trials++
		if result.BestFitness < 0 || run.BestFitness < result.BestFitness {
			result.Best = run.Best
			result.BestFitness = run.BestFitness
		}

		if run.GlobalOptimum {
			result.Optima = append(result.Optima, GlobalOptimum{
				Experiment: experiment,
				Trial:      trial + 1,
				Individual: run.Best,
			})
			break // A global optimum ends the experiment
		}
	}

	result.AverageBestFitness = averageHistories(padHistories(histories))
	return result
}

// overallBest returns the experiment holding the lowest penalty over all experiments (the first one on ties)
func overallBest(results []ExperimentResult) (ExperimentResult, bool) {
	candidates := lo.Filter(results, func(result ExperimentResult, _ int) bool { return result.Best != nil })
	if len(candidates) == 0 {
		return ExperimentResult{}, false
	}
	return lo.MinBy(candidates, func(a, b ExperimentResult) bool { return a.BestFitness < b.BestFitness }), true
}

// padHistories extends every history with its last value up to the longest length. An empty history (an
// optimum selected before the first generation completed) is padded with zeros.
func padHistories(histories [][]int) [][]int {
	length := lo.Max(lo.Map(histories, func(history []int, _ int) int { return len(history) }))

	return lo.Map(histories, func(history []int, _ int) []int {
		last := 0
		if len(history) > 0 {
			last = history[len(history)-1]
		}
		padded := slices.Clone(history)
		for len(padded) < length {
			padded = append(padded, last)
		}
		return padded
	})
}

// averageHistories averages equally long histories generation by generation
func averageHistories(histories [][]int) []float64 {
	if len(histories) == 0 {
		return []float64{}
	}

	return lo.Times(len(histories[0]), func(generation int) float64 {
		total := lo.SumBy(histories, func(history []int) int { return history[generation] })
		return float64(total) / float64(len(histories))
	})
}
