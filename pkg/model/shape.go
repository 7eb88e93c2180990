package model

// Shape holds the fixed dimensions every individual of a run shares
type Shape struct {
	Turns  int
	Days   int
	Blocks int
}

// Length is the number of blocks of an individual with this shape
func (shape Shape) Length() int {
	return shape.Turns * shape.Days * shape.Blocks
}

// Shape returns the individual's dimensions after checking that every turn has the same number of days and every
// day the same number of blocks
func (individual Individual) Shape() (Shape, error) {
	shape := Shape{Turns: len(individual)}
	if shape.Turns == 0 {
		return shape, nil
	}

	shape.Days = len(individual[0])
	if shape.Days > 0 {
		shape.Blocks = len(individual[0][0])
	}

	for _, schedule := range individual {
		if len(schedule) != shape.Days {
			return Shape{}, &ShapeMismatchError{Level: "days", Expected: shape.Days, Actual: len(schedule)}
		}
		for _, day := range schedule {
			if len(day) != shape.Blocks {
				return Shape{}, &ShapeMismatchError{Level: "blocks", Expected: shape.Blocks, Actual: len(day)}
			}
		}
	}
	return shape, nil
}

// Shape returns the shape shared by every member of the population
func (population Population) Shape() (Shape, error) {
	if len(population) == 0 {
		return Shape{}, &ShapeMismatchError{Level: "population", Expected: 1, Actual: 0}
	}

	shape, err := population[0].Shape()
	if err != nil {
		return Shape{}, err
	}
	for _, individual := range population[1:] {
		if err := SameShape(population[0], individual); err != nil {
			return Shape{}, err
		}
	}
	return shape, nil
}

// SameShape checks, level by level, that both individuals have identical dimensions
func SameShape(individual1, individual2 Individual) error {
	if len(individual1) != len(individual2) {
		return &ShapeMismatchError{Level: "turns", Expected: len(individual1), Actual: len(individual2)}
	}

	for turn := range individual1 {
		if len(individual1[turn]) != len(individual2[turn]) {
			return &ShapeMismatchError{Level: "days", Expected: len(individual1[turn]), Actual: len(individual2[turn])}
		}
		for day := range individual1[turn] {
			if len(individual1[turn][day]) != len(individual2[turn][day]) {
				return &ShapeMismatchError{Level: "blocks", Expected: len(individual1[turn][day]), Actual: len(individual2[turn][day])}
			}
		}
	}
	return nil
}
