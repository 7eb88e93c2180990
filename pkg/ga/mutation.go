package ga

import (
	"fmt"
	"log"
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/timetabling-ga/pkg/model"

	"github.com/samber/lo"
)

type MutationType string

const (
	SwapMutation      MutationType = "block_swap"
	InversionMutation MutationType = "block_inversion"
	ScrambleMutation  MutationType = "block_scramble"
)

var MutationTypes = []MutationType{SwapMutation, InversionMutation, ScrambleMutation}

// Mutator rearranges the blocks of every day of an individual in place and returns the same individual.
// A day never gains or loses blocks: its multiset of blocks is preserved.
type Mutator interface {
	Name() string
	Mutate(rng *rand.Rand, individual model.Individual) model.Individual
}

func NewMutator(mutation MutationType) (Mutator, error) {
	switch mutation {
	case SwapMutation:
		return &swapMutator{}, nil
	case InversionMutation:
		return &inversionMutator{}, nil
	case ScrambleMutation:
		return &scrambleMutator{}, nil
	}
	return nil, &model.ConfigurationError{Field: "Mutation", Reason: fmt.Sprintf("unknown mutation operator \"%v\"", mutation)}
}

type swapMutator struct{}

func (mutator *swapMutator) Name() string {
	return string(SwapMutation)
}

func (mutator *swapMutator) Mutate(rng *rand.Rand, individual model.Individual) model.Individual {
	forEachDay(individual, func(day model.Day) {
		i, j := distinctPair(rng, len(day))
		day[i], day[j] = day[j], day[i]
	})
	return individual
}

type inversionMutator struct{}

func (mutator *inversionMutator) Name() string {
	return string(InversionMutation)
}

func (mutator *inversionMutator) Mutate(rng *rand.Rand, individual model.Individual) model.Individual {
	forEachDay(individual, func(day model.Day) {
		if len(day) < 3 {
			log.Panicf("inversion mutation needs at least 3 blocks per day, got %d", len(day))
		}

		i, j := distinctPair(rng, len(day))
		for i-j == 1 || j-i == 1 { // Adjacent bounds would reverse a single block
			i, j = distinctPair(rng, len(day))
		}
		invertSpan(day, min(i, j), max(i, j))
	})
	return individual
}

type scrambleMutator struct{}

func (mutator *scrambleMutator) Name() string {
	return string(ScrambleMutation)
}

func (mutator *scrambleMutator) Mutate(rng *rand.Rand, individual model.Individual) model.Individual {
	forEachDay(individual, func(day model.Day) {
		scrambled := lo.Map(rng.Perm(len(day)), func(index int, _ int) model.Block {
			return day[index]
		})
		copy(day, scrambled)
	})
	return individual
}

// Reverses day[low:high] in place (high excluded)
func invertSpan(day model.Day, low, high int) {
	slices.Reverse(day[low:high])
}

// Two different indices in [0, n)
func distinctPair(rng *rand.Rand, n int) (int, int) {
	if n < 2 {
		log.Panicf("cannot draw two distinct blocks out of a day of %d blocks", n)
	}

	i := rng.IntN(n)
	j := rng.IntN(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

func forEachDay(individual model.Individual, apply func(day model.Day)) {
	for _, schedule := range individual {
		for _, day := range schedule {
			apply(day)
		}
	}
}
