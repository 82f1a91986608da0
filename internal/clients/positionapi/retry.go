package positionapi

import (
	"errors"
	"fmt"
)

// Phase is a step of the fetch state machine
type Phase int

// Fetch phases
const (
	PhaseAttempting Phase = iota
	PhaseWaiting
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseAttempting:
		return "attempting"
	case PhaseWaiting:
		return "waiting"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the fetch state machine state. Attempt is 1-based.
type State struct {
	Phase      Phase
	Attempt    int
	MaxRetries int
	Err        error // Last attempt error while waiting, terminal error once failed
}

// Start returns the initial state for a fetch allowing maxRetries attempts
func Start(maxRetries int) State {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return State{Phase: PhaseAttempting, Attempt: 1, MaxRetries: maxRetries}
}

// Next is the pure transition function.
//
// From Attempting, result is the attempt outcome (nil on success).
// From Waiting, result is the wait outcome (nil once the delay elapsed).
// Done and Failed are terminal.
func Next(s State, result error) State {
	switch s.Phase {
	case PhaseAttempting:
		if result == nil {
			return State{Phase: PhaseDone, Attempt: s.Attempt, MaxRetries: s.MaxRetries}
		}
		var clientErr *ClientError
		if errors.As(result, &clientErr) || !Retryable(result) {
			return State{Phase: PhaseFailed, Attempt: s.Attempt, MaxRetries: s.MaxRetries, Err: result}
		}
		if s.Attempt < s.MaxRetries {
			return State{Phase: PhaseWaiting, Attempt: s.Attempt, MaxRetries: s.MaxRetries, Err: result}
		}
		return State{
			Phase:      PhaseFailed,
			Attempt:    s.Attempt,
			MaxRetries: s.MaxRetries,
			Err:        &ExhaustedRetriesError{Attempts: s.Attempt, Last: result},
		}

	case PhaseWaiting:
		if result != nil {
			return State{Phase: PhaseFailed, Attempt: s.Attempt, MaxRetries: s.MaxRetries, Err: result}
		}
		return State{Phase: PhaseAttempting, Attempt: s.Attempt + 1, MaxRetries: s.MaxRetries}

	default:
		return s
	}
}

// Terminal reports whether the state machine has stopped
func (s State) Terminal() bool {
	return s.Phase == PhaseDone || s.Phase == PhaseFailed
}
