package ga

import (
	"cmp"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
)

type SelectionType string

const (
	FitnessProportionateSelection SelectionType = "fitness_proportionate"
	RankingSelection              SelectionType = "ranking"
	TournamentSelection           SelectionType = "tournament"
)

const DefaultTournamentSize = 3

var SelectionTypes = []SelectionType{FitnessProportionateSelection, RankingSelection, TournamentSelection}

// Selector picks one parent out of a scored population. Scores run parallel to the population and lower is better.
// Implementations return the index of the chosen individual and never modify their inputs.
type Selector interface {
	Name() string
	Select(rng *rand.Rand, population model.Population, scores []float64) (int, error)
}

func NewSelector(selection SelectionType, tournamentSize int) (Selector, error) {
	switch selection {
	case FitnessProportionateSelection:
		return &fitnessProportionateSelector{}, nil
	case RankingSelection:
		return &rankingSelector{}, nil
	case TournamentSelection:
		if tournamentSize < 1 {
			return nil, &model.ConfigurationError{Field: "TournamentSize", Reason: "must be at least 1"}
		}
		return &tournamentSelector{size: tournamentSize}, nil
	}
	return nil, &model.ConfigurationError{Field: "Selection", Reason: fmt.Sprintf("unknown selection algorithm \"%v\"", selection)}
}

type fitnessProportionateSelector struct{}

func (selector *fitnessProportionateSelector) Name() string {
	return string(FitnessProportionateSelection)
}

func (selector *fitnessProportionateSelector) Select(rng *rand.Rand, population model.Population, scores []float64) (int, error) {
	if err := checkScores(population, scores); err != nil {
		return 0, err
	} else if index, ok := globalOptimum(scores); ok {
		return index, nil
	}

	// Every score is positive past the global optimum check
	inverses := lo.Map(scores, func(score float64, _ int) float64 {
		if score <= 0 {
			log.Panicf("fitness-proportionate selection reached a non-positive score: %v", score)
		}
		return 1 / score
	})
	total := lo.Sum(inverses)

	probabilities := lo.Map(inverses, func(inverse float64, _ int) float64 { return inverse / total })
	return weightedChoice(rng, probabilities), nil
}

type rankingSelector struct{}

func (selector *rankingSelector) Name() string {
	return string(RankingSelection)
}

func (selector *rankingSelector) Select(rng *rand.Rand, population model.Population, scores []float64) (int, error) {
	if err := checkScores(population, scores); err != nil {
		return 0, err
	} else if index, ok := globalOptimum(scores); ok {
		return index, nil
	}

	// Best (lowest) score first; equal scores keep their population order
	ranked := lo.Range(len(scores))
	slices.SortStableFunc(ranked, func(a, b int) int {
		return cmp.Compare(scores[a], scores[b])
	})

	// The best individual weighs n and the worst weighs 1
	weights := lo.Map(ranked, func(_ int, rank int) float64 {
		return float64(len(ranked) - rank)
	})

	return ranked[weightedChoice(rng, weights)], nil
}

type tournamentSelector struct {
	size int
}

func (selector *tournamentSelector) Name() string {
	return string(TournamentSelection)
}

func (selector *tournamentSelector) Select(rng *rand.Rand, population model.Population, scores []float64) (int, error) {
	if err := checkScores(population, scores); err != nil {
		return 0, err
	} else if index, ok := globalOptimum(scores); ok {
		return index, nil
	}

	// Contestants are drawn with replacement; the first drawn wins ties
	winner := rng.IntN(len(scores))
	for range selector.size - 1 {
		contestant := rng.IntN(len(scores))
		if scores[contestant] < scores[winner] {
			winner = contestant
		}
	}
	return winner, nil
}

func checkScores(population model.Population, scores []float64) error {
	if len(population) == 0 {
		return &model.ShapeMismatchError{Level: "population", Expected: 1, Actual: 0}
	} else if len(population) != len(scores) {
		return fmt.Errorf("population and scores must have the same length: %d != %d", len(population), len(scores))
	}
	return nil
}

// Index of the first individual scoring exactly 0, if any
func globalOptimum(scores []float64) (int, bool) {
	index := slices.Index(scores, 0)
	return index, index >= 0
}

// Draws an index with probability proportional to its weight
func weightedChoice(rng *rand.Rand, weights []float64) int {
	pick := rng.Float64() * lo.Sum(weights)

	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if pick < cumulative {
			return i
		}
	}
	return len(weights) - 1 // Only reachable through floating point rounding
}
