package model

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// SubjectPoolSize is the number of named subjects a practical turn can draw its eligible subjects from
const SubjectPoolSize = 30

const subjectPrefix = "Subject_"

// Block is the atomic schedule unit: either the Break sentinel or one of the subjects Subject_1 … Subject_30
type Block uint8

// Break is the rest period; it is the zero value of Block
const Break Block = 0

// Subject returns the block holding the n-th subject of the pool (1-based)
func Subject(n int) Block {
	if n < 1 || n > SubjectPoolSize {
		log.Panicf("subject %d is out of the pool [1, %d]", n, SubjectPoolSize)
	}
	return Block(n)
}

func (block Block) IsBreak() bool {
	return block == Break
}

func (block Block) String() string {
	if block.IsBreak() {
		return "Break"
	}
	return subjectPrefix + strconv.Itoa(int(block))
}

func (block Block) MarshalText() ([]byte, error) {
	return []byte(block.String()), nil
}

func (block *Block) UnmarshalText(text []byte) error {
	value := string(text)
	if value == "Break" {
		*block = Break
		return nil
	}

	number, err := strconv.Atoi(strings.TrimPrefix(value, subjectPrefix))
	if err != nil || !strings.HasPrefix(value, subjectPrefix) || number < 1 || number > SubjectPoolSize {
		return fmt.Errorf("invalid block \"%v\"", value)
	}
	*block = Block(number)
	return nil
}
