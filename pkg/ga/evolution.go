package ga

import (
	"log/slog"
	"math/rand/v2"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
)

// Result is the outcome of one run. BestFitnessPerGeneration holds the best-ever penalty after each completed
// generation and is shorter than the generation limit when a global optimum ended the run early.
type Result struct {
	Best                     model.Individual
	BestFitness              int
	BestFitnessPerGeneration []int
	GlobalOptimum            bool
	Generations              int
}

type GeneticAlgorithm interface {
	Evolve(population model.Population) (Result, error)
}

type geneticAlgorithm struct {
	config    Config
	rng       *rand.Rand
	logger    *slog.Logger
	selector  Selector
	crossover Crossover
	mutator   Mutator
}

// NewGeneticAlgorithm validates the configuration and builds its operators. A nil logger discards progress.
func NewGeneticAlgorithm(config Config, rng *rand.Rand, logger *slog.Logger) (GeneticAlgorithm, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	selector, crossover, mutator, err := config.operators()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &geneticAlgorithm{
		config:    config,
		rng:       rng,
		logger:    logger,
		selector:  selector,
		crossover: crossover,
		mutator:   mutator,
	}, nil
}

func (algorithm *geneticAlgorithm) Evolve(population model.Population) (Result, error) {
	shape, err := population.Shape()
	if err != nil {
		return Result{}, err
	} else if err := checkOperatorShape(algorithm.config.Crossover, algorithm.config.Mutation, shape); err != nil {
		return Result{}, err
	}

	size := len(population)
	result := Result{
		BestFitness:              -1, // Unset until the first generation completes
		BestFitnessPerGeneration: make([]int, 0, algorithm.config.Generations),
	}

	for generation := range algorithm.config.Generations {
		penalties := EvaluatePopulation(population)

		//** Scores driving selection
		var scores []float64
		if algorithm.config.Sharing {
			scores, err = sharedFitness(population, penalties)
			if err != nil {
				return Result{}, err
			}
		} else {
			scores = lo.Map(penalties, func(penalty int, _ int) float64 { return float64(penalty) })
		}

		next := make(model.Population, 0, size+1)
		if algorithm.config.Elitism {
			// The elite is chosen on unshared penalties, so sharing never drops the best individual
			next = append(next, population[argMin(penalties)].Clone())
		}

		//** Offspring
		for len(next) < size {
			parents := [2]model.Individual{}
			for i := range parents {
				index, err := algorithm.selector.Select(algorithm.rng, population, scores)
				if err != nil {
					return Result{}, err
				}
				if scores[index] == 0 {
					// A global optimum ends the whole run with the history gathered so far
					result.Best = population[index].Clone()
					result.BestFitness = penalties[index]
					result.GlobalOptimum = true
					result.Generations = generation
					algorithm.logger.Info("global optimum selected", "generation", generation+1)
					return result, nil
				}
				parents[i] = population[index]
			}

			var offspring1, offspring2 model.Individual
			if algorithm.rng.Float64() < algorithm.config.CrossoverProbability {
				offspring1, offspring2, err = algorithm.crossover.Cross(algorithm.rng, parents[0], parents[1])
				if err != nil {
					return Result{}, err
				}
			} else {
				offspring1, offspring2 = parents[0].Clone(), parents[1].Clone()
			}

			if algorithm.rng.Float64() < algorithm.config.MutationProbability {
				offspring1 = algorithm.mutator.Mutate(algorithm.rng, offspring1)
			}
			if algorithm.rng.Float64() < algorithm.config.MutationProbability {
				offspring2 = algorithm.mutator.Mutate(algorithm.rng, offspring2)
			}

			next = append(next, offspring1, offspring2)
		}
		population = next[:size]

		//** Best-ever tracking on unshared penalties
		penalties = EvaluatePopulation(population)
		currentBest := argMin(penalties)
		if result.BestFitness < 0 || penalties[currentBest] < result.BestFitness {
			result.Best = population[currentBest].Clone()
			result.BestFitness = penalties[currentBest]
		}
		result.BestFitnessPerGeneration = append(result.BestFitnessPerGeneration, result.BestFitness)
		result.Generations = generation + 1

		algorithm.logger.Info("generation evaluated",
			"generation", generation+1,
			"best_fitness", result.BestFitness,
			"current_best_fitness", penalties[currentBest],
		)
	}

	result.GlobalOptimum = result.BestFitness == 0
	return result, nil
}

// Index of the first minimum
func argMin[T int | float64](values []T) int {
	best := 0
	for i, value := range values {
		if value < values[best] {
			best = i
		}
	}
	return best
}
