package padel

import "errors"

// Domain error taxonomy. Stores and services wrap these sentinels with
// fmt.Errorf("...: %w", Err...) so callers can classify failures with
// errors.Is while still getting a human-readable message.
var (
	// ErrValidation covers malformed input: missing winner, a team
	// outside {A,B}, non-positive scores and the like.
	ErrValidation = errors.New("validation failed")

	// ErrCapacity is returned when an acceptance would overbook the
	// roster or drive spots_available negative.
	ErrCapacity = errors.New("match capacity exceeded")

	// ErrStateConflict is returned when an operation is attempted on a
	// match or participant not in the required status, including a
	// concurrent double-accept or a second result recording.
	ErrStateConflict = errors.New("operation conflicts with current state")

	// ErrNotFound is returned when a match, participant, profile or
	// invite reference does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDownstream wraps data store or delivery collaborator failures.
	ErrDownstream = errors.New("downstream failure")
)
