package quizgen

import "fmt"

// GenerationError wraps any failure to turn a topic into a set of
// questions: provider errors, invalid responses, and rule violations.
type GenerationError struct {
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate quiz about %q: %v", e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
