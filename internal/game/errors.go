// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// ErrEmptyDeck signals a draw from an empty deck. The turn loop checks
// deck length before every turn, so seeing this error outside dealing
// means an engine bug, not bad user input.
var ErrEmptyDeck = errors.New("draw from empty deck")

// ErrKaboAlreadyCalled signals a second Kabo call in the same round.
var ErrKaboAlreadyCalled = errors.New("kabo already called this round")

// IllegalActionError is raised when a decider returns a value outside
// the constraints of the call that prompted it. The engine re-validates
// every answer, so this fires even when a remote client claims to have
// validated its own input.
type IllegalActionError struct {
	Player string
	Call   string
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action by %s in %s: %s", e.Player, e.Call, e.Reason)
}

// ParticipantLostError wraps a decider failure that makes the round
// unplayable, typically a remote disconnect mid-request. The round must
// not retry; it terminates and reports who was lost.
type ParticipantLostError struct {
	Player string
	Err    error
}

func (e *ParticipantLostError) Error() string {
	return fmt.Sprintf("participant %s lost: %v", e.Player, e.Err)
}

func (e *ParticipantLostError) Unwrap() error {
	return e.Err
}
