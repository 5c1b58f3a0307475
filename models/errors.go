package models

import "fmt"

// ValidationError reports a missing or malformed field at creation time.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field}
}
