package invoice

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusListed    Status = "listed"
	StatusFunded    Status = "funded"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusListed, StatusFunded, StatusCompleted, StatusDefaulted:
		return true
	}
	return false
}

// legal transitions: pending→listed→funded→completed, with defaulted
// reachable from funded (unpaid past due) and listed (withdrawn).
var transitions = map[Status][]Status{
	StatusPending: {StatusListed},
	StatusListed:  {StatusFunded, StatusDefaulted},
	StatusFunded:  {StatusCompleted, StatusDefaulted},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	ErrNotFound = errors.New("invoice not found")
	// ErrAlreadyFunded signals a lost purchase race: another investor won
	// the listed→funded flip first.
	ErrAlreadyFunded = errors.New("invoice already funded")
	// ErrStatusConflict is returned by guarded status updates whose
	// expected prior status no longer matched (zero rows affected).
	ErrStatusConflict = errors.New("invoice status changed concurrently")
)

// InvalidTransitionError names both ends of a rejected transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid invoice transition: %s -> %s", e.From, e.To)
}

// NewInvalidTransition builds the rejection for a from→to attempt.
func NewInvalidTransition(from, to Status) error {
	return &InvalidTransitionError{From: from, To: to}
}
