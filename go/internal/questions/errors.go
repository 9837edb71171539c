package questions

import "errors"

// ErrInsufficientContent is returned when the question bank cannot produce
// the requested number of unique questions
var ErrInsufficientContent = errors.New("insufficient question content")
