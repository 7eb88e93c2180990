package ga

import (
	"fmt"
	"math/rand/v2"

	"github.com/limaJavier/timetabling-ga/pkg/model"
)

type CrossoverType string

const (
	UniformDayCrossover       CrossoverType = "uniform_day"
	UniformBlockCrossover     CrossoverType = "uniform_block"
	SinglePointDayCrossover   CrossoverType = "single_point_day"
	SinglePointBlockCrossover CrossoverType = "single_point_block"
)

var CrossoverTypes = []CrossoverType{UniformDayCrossover, UniformBlockCrossover, SinglePointDayCrossover, SinglePointBlockCrossover}

// Crossover recombines two parents of identical shape into two offspring. Offspring never share memory with
// the parents, and parents of different shapes yield a ShapeMismatchError with no offspring at all.
type Crossover interface {
	Name() string
	Cross(rng *rand.Rand, parent1, parent2 model.Individual) (model.Individual, model.Individual, error)
}

func NewCrossover(crossover CrossoverType) (Crossover, error) {
	switch crossover {
	case UniformDayCrossover:
		return &uniformDayCrossover{}, nil
	case UniformBlockCrossover:
		return &uniformBlockCrossover{}, nil
	case SinglePointDayCrossover:
		return &singlePointDayCrossover{}, nil
	case SinglePointBlockCrossover:
		return &singlePointBlockCrossover{}, nil
	}
	return nil, &model.ConfigurationError{Field: "Crossover", Reason: fmt.Sprintf("unknown crossover operator \"%v\"", crossover)}
}

//** Uniform

type uniformDayCrossover struct{}

func (crossover *uniformDayCrossover) Name() string {
	return string(UniformDayCrossover)
}

func (crossover *uniformDayCrossover) Cross(rng *rand.Rand, parent1, parent2 model.Individual) (model.Individual, model.Individual, error) {
	offspring1, offspring2, err := cloneParents(parent1, parent2)
	if err != nil {
		return nil, nil, err
	}

	for turn := range offspring1 {
		for day := range offspring1[turn] {
			if rng.IntN(2) == 1 { // Tails: offspring1 takes the day from parent2
				offspring1[turn][day], offspring2[turn][day] = offspring2[turn][day], offspring1[turn][day]
			}
		}
	}
	return offspring1, offspring2, nil
}

type uniformBlockCrossover struct{}

func (crossover *uniformBlockCrossover) Name() string {
	return string(UniformBlockCrossover)
}

func (crossover *uniformBlockCrossover) Cross(rng *rand.Rand, parent1, parent2 model.Individual) (model.Individual, model.Individual, error) {
	offspring1, offspring2, err := cloneParents(parent1, parent2)
	if err != nil {
		return nil, nil, err
	}

	for turn := range offspring1 {
		for day := range offspring1[turn] {
			day1, day2 := offspring1[turn][day], offspring2[turn][day]
			for block := range day1 {
				if rng.IntN(2) == 1 {
					day1[block], day2[block] = day2[block], day1[block]
				}
			}
		}
	}
	return offspring1, offspring2, nil
}

//** Single point

type singlePointDayCrossover struct{}

func (crossover *singlePointDayCrossover) Name() string {
	return string(SinglePointDayCrossover)
}

func (crossover *singlePointDayCrossover) Cross(rng *rand.Rand, parent1, parent2 model.Individual) (model.Individual, model.Individual, error) {
	offspring1, offspring2, err := cloneParents(parent1, parent2)
	if err != nil {
		return nil, nil, err
	}

	for turn := range offspring1 {
		days := len(offspring1[turn])
		if days < 2 {
			return nil, nil, &model.ConfigurationError{Field: "DaysPerWeek", Reason: "single-point day crossover needs at least 2 days"}
		}

		// offspring1 = parent1[:point] + parent2[point:] and offspring2 the complement
		point := 1 + rng.IntN(days-1)
		for day := point; day < days; day++ {
			offspring1[turn][day], offspring2[turn][day] = offspring2[turn][day], offspring1[turn][day]
		}
	}
	return offspring1, offspring2, nil
}

type singlePointBlockCrossover struct{}

func (crossover *singlePointBlockCrossover) Name() string {
	return string(SinglePointBlockCrossover)
}

func (crossover *singlePointBlockCrossover) Cross(rng *rand.Rand, parent1, parent2 model.Individual) (model.Individual, model.Individual, error) {
	offspring1, offspring2, err := cloneParents(parent1, parent2)
	if err != nil {
		return nil, nil, err
	}

	for turn := range offspring1 {
		for day := range offspring1[turn] {
			day1, day2 := offspring1[turn][day], offspring2[turn][day]
			if len(day1) < 2 {
				return nil, nil, &model.ConfigurationError{Field: "BlocksPerDay", Reason: "single-point block crossover needs at least 2 blocks"}
			}

			point := 1 + rng.IntN(len(day1)-1)
			for block := point; block < len(day1); block++ {
				day1[block], day2[block] = day2[block], day1[block]
			}
		}
	}
	return offspring1, offspring2, nil
}

// Deep copies of both parents once their shapes are known to match
func cloneParents(parent1, parent2 model.Individual) (model.Individual, model.Individual, error) {
	if err := model.SameShape(parent1, parent2); err != nil {
		return nil, nil, err
	}
	return parent1.Clone(), parent2.Clone(), nil
}
