package model

import (
	"math/rand/v2"

	"github.com/samber/lo"
)

// PopulationSpec holds the dimensions of a randomly initialized population
type PopulationSpec struct {
	PopulationSize  int
	PracticalTurns  int
	SubjectsPerTurn int
	DaysPerWeek     int
	BlocksPerDay    int
}

func (spec PopulationSpec) Shape() Shape {
	return Shape{Turns: spec.PracticalTurns, Days: spec.DaysPerWeek, Blocks: spec.BlocksPerDay}
}

func (spec PopulationSpec) Validate() error {
	bounds := []struct {
		field string
		value int
	}{
		{"PopulationSize", spec.PopulationSize},
		{"PracticalTurns", spec.PracticalTurns},
		{"SubjectsPerTurn", spec.SubjectsPerTurn},
		{"DaysPerWeek", spec.DaysPerWeek},
		{"BlocksPerDay", spec.BlocksPerDay},
	}
	for _, bound := range bounds {
		if bound.value < 1 {
			return &ConfigurationError{Field: bound.field, Reason: "must be at least 1"}
		}
	}

	if spec.SubjectsPerTurn > SubjectPoolSize {
		return &ConfigurationError{Field: "SubjectsPerTurn", Reason: "exceeds the subject pool size of 30"}
	}
	return nil
}

// CreatePopulation builds a random population in which every practical turn of every individual draws its own
// eligible subjects and every day holds at least one Break
func CreatePopulation(rng *rand.Rand, spec PopulationSpec) (Population, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	population := lo.Times(spec.PopulationSize, func(_ int) Individual {
		return lo.Times(spec.PracticalTurns, func(_ int) TurnSchedule {
			subjects := EligibleSubjects(rng, spec.SubjectsPerTurn)
			return lo.Times(spec.DaysPerWeek, func(_ int) Day {
				return randomDay(rng, subjects, spec.BlocksPerDay)
			})
		})
	})

	return population, nil
}

// EligibleSubjects draws count distinct subjects from the pool
func EligibleSubjects(rng *rand.Rand, count int) []Block {
	return lo.Map(rng.Perm(SubjectPoolSize)[:count], func(index int, _ int) Block {
		return Subject(index + 1)
	})
}

func randomDay(rng *rand.Rand, subjects []Block, blocks int) Day {
	breaks := 1 + rng.IntN(blocks) // At least one break per day

	day := make(Day, 0, blocks)
	for range blocks - breaks {
		day = append(day, subjects[rng.IntN(len(subjects))]) // Sampled with replacement
	}
	for range breaks {
		day = append(day, Break)
	}

	rng.Shuffle(len(day), func(i, j int) {
		day[i], day[j] = day[j], day[i]
	})
	return day
}
