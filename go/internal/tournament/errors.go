package tournament

import "errors"

// ErrNotFound is returned for unknown tournament or bracket match ids
var ErrNotFound = errors.New("not found")

// ErrAlreadyCompleted is returned when a result is recorded twice for the
// same bracket match
var ErrAlreadyCompleted = errors.New("match already completed")

// ErrInvalidState is returned when an operation is not legal for the match's
// or tournament's current state
var ErrInvalidState = errors.New("invalid state for operation")

// ErrInvalidBracket is returned when a bracket cannot be constructed from the
// given roster
var ErrInvalidBracket = errors.New("invalid bracket")
