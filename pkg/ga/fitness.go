package ga

import (
	"log"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
)

const (
	MinBlocksPerSubject  = 8 // Weekly blocks each subject of a practical turn should reach
	OverlapPenalty       = 3
	BreakPositionPenalty = 2
	MissingBreakPenalty  = 4
	ShortfallPenalty     = 5 // Per block missing to reach MinBlocksPerSubject
)

// Preferred (0-based) positions of a Break within a day
var preferredBreakBlocks = map[int]bool{3: true, 4: true}

// Evaluate returns the penalty of an individual; lower is better and 0 is a global optimum.
//
// Penalties:
//   - every repeated (day, block, subject) across practical turns costs OverlapPenalty
//   - every Break outside the preferred positions costs BreakPositionPenalty
//   - every day without a Break costs MissingBreakPenalty
//   - every subject of a turn below MinBlocksPerSubject weekly blocks costs ShortfallPenalty per missing block
//
// The individual must be rectangular (see model.Individual.Shape).
func Evaluate(individual model.Individual) int {
	shape, err := individual.Shape()
	if err != nil {
		log.Panicf("cannot evaluate individual: %v", err)
	}

	penalties := 0
	indexer := model.NewIndexer(shape.Days, shape.Blocks)
	taught := make([]bool, indexer.Size()) // (day, block, subject) slots already taught by some turn

	for _, schedule := range individual {
		weekCounts := make(map[model.Block]int)

		for dayIndex, day := range schedule {
			breakFound := false

			for blockIndex, block := range day {
				if block.IsBreak() {
					breakFound = true
					if !preferredBreakBlocks[blockIndex] {
						penalties += BreakPositionPenalty
					}
					continue
				}

				weekCounts[block]++

				slot := indexer.Index(dayIndex, blockIndex, block)
				if taught[slot] {
					penalties += OverlapPenalty
				} else {
					taught[slot] = true
				}
			}

			if !breakFound {
				penalties += MissingBreakPenalty
			}
		}

		// Only subjects present in the turn are checked, and surplus blocks are never a bonus
		for _, count := range weekCounts {
			penalties += max(0, MinBlocksPerSubject-count) * ShortfallPenalty
		}
	}

	return penalties
}

func EvaluatePopulation(population model.Population) []int {
	return lo.Map(population, func(individual model.Individual, _ int) int {
		return Evaluate(individual)
	})
}
