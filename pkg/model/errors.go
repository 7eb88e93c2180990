package model

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrShapeMismatch = errors.New("shape mismatch")
)

// ConfigurationError reports a degenerate run configuration detected before any work is done
type ConfigurationError struct {
	Field  string
	Reason string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v %v", err.Field, err.Reason)
}

func (err *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ShapeMismatchError reports two schedules (or a schedule and the population contract) whose dimensions differ.
// Level is one of "population", "turns", "days" or "blocks".
type ShapeMismatchError struct {
	Level    string
	Expected int
	Actual   int
}

func (err *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch at %v level: expected %d, got %d", err.Level, err.Expected, err.Actual)
}

func (err *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
