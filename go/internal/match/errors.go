package match

import "errors"

// ErrNotFound is returned when no live match exists for an id
var ErrNotFound = errors.New("live match not found")

// ErrInvalidTransition is returned when an operation is not legal in the
// match's current state (e.g. flipping a coin that is already flipped)
var ErrInvalidTransition = errors.New("invalid transition")

// ErrStaleSubmission is returned when an answer no longer applies to the
// current question, team, or match state
var ErrStaleSubmission = errors.New("stale submission")

// ErrUnauthorized is returned when the decider of the coin toss choice is
// neither the toss winner nor the match moderator
var ErrUnauthorized = errors.New("unauthorized decision")
