package questions

import "errors"

// CreateQuestionRequest represents a request to add a question to the bank
type CreateQuestionRequest struct {
	Prompt     string            `json:"prompt"`
	Options    map[string]string `json:"options"`
	CorrectKey string            `json:"correct_key"`
	Category   string            `json:"category,omitempty"`
}

var (
	errEmptyPrompt   = errors.New("question prompt is empty")
	errTooFewOptions = errors.New("question needs at least two options")
	errBadCorrectKey = errors.New("correct key is not among the options")
)

// Validate checks that the question is answerable.
func (r CreateQuestionRequest) Validate() error {
	if r.Prompt == "" {
		return errEmptyPrompt
	}
	if len(r.Options) < 2 {
		return errTooFewOptions
	}
	if _, ok := r.Options[r.CorrectKey]; !ok {
		return errBadCorrectKey
	}
	return nil
}
