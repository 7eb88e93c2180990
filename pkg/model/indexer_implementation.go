package model

type indexerImplementation struct {
	days     int
	blocks   int
	subjects int
}

func (indexer *indexerImplementation) Index(day, block int, subject Block) int {
	return day + indexer.days*block + indexer.days*indexer.blocks*int(subject)
}

func (indexer *indexerImplementation) Attributes(index int) (day, block int, subject Block) {
	day = index % indexer.days
	index = index / indexer.days

	block = index % indexer.blocks
	index = index / indexer.blocks

	subject = Block(index % indexer.subjects)

	return day, block, subject
}

func (indexer *indexerImplementation) Size() int {
	return indexer.days * indexer.blocks * indexer.subjects
}
