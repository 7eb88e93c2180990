package ga

import (
	"math/rand/v2"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
)

const (
	A = model.Block(1)
	B = model.Block(2)
	C = model.Block(3)
	D = model.Block(4)
	X = model.Break
)

func newRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 1024))
}

// Every block of the individual holds the same value
func uniformIndividual(shape model.Shape, block model.Block) model.Individual {
	return lo.Times(shape.Turns, func(_ int) model.TurnSchedule {
		return lo.Times(shape.Days, func(_ int) model.Day {
			return lo.Times(shape.Blocks, func(_ int) model.Block { return block })
		})
	})
}

// Every block of the individual holds a different value (as long as the individual has at most 30 blocks)
func distinctIndividual(shape model.Shape) model.Individual {
	next := 0
	return lo.Times(shape.Turns, func(_ int) model.TurnSchedule {
		return lo.Times(shape.Days, func(_ int) model.Day {
			return lo.Times(shape.Blocks, func(_ int) model.Block {
				next++
				return model.Block(next)
			})
		})
	})
}

// Two turns of four [s, t, s, Break, t] days each: no penalty at all
func optimalIndividual() model.Individual {
	turn := func(s, t model.Block) model.TurnSchedule {
		return lo.Times(4, func(_ int) model.Day { return model.Day{s, t, s, X, t} })
	}
	return model.Individual{turn(A, B), turn(C, D)}
}
