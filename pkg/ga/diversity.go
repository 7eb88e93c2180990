package ga

import (
	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
)

// PairwiseDistance is the Hamming distance between two individuals: the number of (turn, day, block) positions
// holding different blocks. Both individuals must have the same shape.
func PairwiseDistance(individual1, individual2 model.Individual) (int, error) {
	if err := model.SameShape(individual1, individual2); err != nil {
		return 0, err
	}

	distance := 0
	for turn := range individual1 {
		for day := range individual1[turn] {
			for block := range individual1[turn][day] {
				if individual1[turn][day][block] != individual2[turn][day][block] {
					distance++
				}
			}
		}
	}
	return distance, nil
}

// DistanceMatrix computes every pairwise distance of the population (symmetric with a zero diagonal).
// Cost is O(n²·L) for n individuals of L blocks each.
func DistanceMatrix(population model.Population) ([][]int, error) {
	matrix := lo.Times(len(population), func(_ int) []int { return make([]int, len(population)) })

	for i := range len(population) {
		for j := i + 1; j < len(population); j++ {
			distance, err := PairwiseDistance(population[i], population[j])
			if err != nil {
				return nil, err
			}
			matrix[i][j] = distance
			matrix[j][i] = distance
		}
	}
	return matrix, nil
}

// SharedFitness rescales every penalty by the individual's niche count (the sum of its similarities to the whole
// population, itself included). This is the minimization variant: individuals resembling many others get a larger
// penalty, rare ones stay close to their raw penalty.
func SharedFitness(population model.Population) ([]float64, error) {
	if len(population) == 0 {
		return []float64{}, nil
	} else if _, err := population.Shape(); err != nil {
		return nil, err
	}
	return sharedFitness(population, EvaluatePopulation(population))
}

func sharedFitness(population model.Population, penalties []int) ([]float64, error) {
	if len(population) == 0 {
		return []float64{}, nil
	}

	distances, err := DistanceMatrix(population)
	if err != nil {
		return nil, err
	}

	shape, err := population[0].Shape()
	if err != nil {
		return nil, err
	}
	length := float64(shape.Length()) // Uniform across the population by precondition

	shared := make([]float64, len(population))
	for i, row := range distances {
		nicheCount := lo.SumBy(row, func(distance int) float64 {
			return 1 - float64(distance)/length
		})

		if nicheCount != 0 {
			shared[i] = float64(penalties[i]) * nicheCount
		} else {
			shared[i] = float64(penalties[i])
		}
	}
	return shared, nil
}
