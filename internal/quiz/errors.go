package quiz

import "fmt"

// ValidationError reports a malformed payload or a violated quiz invariant.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// CountMismatch builds the error returned when a collection does not have
// the expected number of entries.
func CountMismatch(field string, expected, received int) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("expected %d, received %d", expected, received),
	}
}
