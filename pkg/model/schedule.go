package model

import (
	"slices"

	"github.com/samber/lo"
)

// Day is one practical turn's sequence of blocks for a single week day
type Day []Block

// TurnSchedule is the weekly timetable of one practical turn (one Day per week day)
type TurnSchedule []Day

// Individual is a candidate timetable: one TurnSchedule per practical turn.
// Individuals are mutable; operators that must not alias their inputs work on a Clone.
type Individual []TurnSchedule

// Population is the ordered set of individuals the genetic algorithm evolves
type Population []Individual

func (day Day) Clone() Day {
	return slices.Clone(day)
}

func (schedule TurnSchedule) Clone() TurnSchedule {
	return lo.Map(schedule, func(day Day, _ int) Day { return day.Clone() })
}

// Clone returns a deep copy that shares no block storage with the receiver
func (individual Individual) Clone() Individual {
	if individual == nil {
		return nil
	}
	return lo.Map(individual, func(schedule TurnSchedule, _ int) TurnSchedule { return schedule.Clone() })
}

func (population Population) Clone() Population {
	return lo.Map(population, func(individual Individual, _ int) Individual { return individual.Clone() })
}

// Equal reports whether both individuals hold the same blocks at the same positions
func (individual Individual) Equal(other Individual) bool {
	return slices.EqualFunc(individual, other, func(schedule1, schedule2 TurnSchedule) bool {
		return slices.EqualFunc(schedule1, schedule2, func(day1, day2 Day) bool {
			return slices.Equal(day1, day2)
		})
	})
}

// Flatten lists every block in (turn, day, block) order
func (individual Individual) Flatten() []Block {
	return lo.Flatten(lo.Map(individual, func(schedule TurnSchedule, _ int) []Block {
		return lo.Flatten(lo.Map(schedule, func(day Day, _ int) []Block { return day }))
	}))
}
