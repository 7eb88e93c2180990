package model

// Indexer gives a unique index to every (day, block, subject) slot of a practical turn and vice versa
type Indexer interface {
	// Returns the unique index of the subject taught at the given day and block
	Index(day, block int, subject Block) int
	// Returns the day, block and subject of a unique index
	Attributes(index int) (day int, block int, subject Block)
	// Number of distinct indices; every index lies in [0, Size())
	Size() int
}

func NewIndexer(days, blocks int) Indexer {
	return &indexerImplementation{
		days:     days,
		blocks:   blocks,
		subjects: SubjectPoolSize + 1, // Break included
	}
}
