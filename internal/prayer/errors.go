package prayer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant marks a programming-error class failure: the inputs
	// produced a state the engine refuses to paper over.
	ErrInvariant = errors.New("prayer: invariant violation")

	// ErrUnorderedSchedule is returned when schedule timestamps decrease.
	ErrUnorderedSchedule = errors.New("prayer: schedule timestamps out of order")
)

// InvariantError describes a violated invariant. It matches ErrInvariant.
type InvariantError struct {
	Period Period
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v at %s: %s", ErrInvariant, e.Period, e.Detail)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

func violation(p Period, format string, args ...any) error {
	return &InvariantError{Period: p, Detail: fmt.Sprintf(format, args...)}
}
