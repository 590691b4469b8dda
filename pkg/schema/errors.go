package schema

import (
	"errors"
	"fmt"
)

// ValueError is the error form of an invalid Result.
type ValueError struct {
	Reason string
}

func (e *ValueError) Error() string { return e.Reason }

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string `json:"key"`             // Field name
	Reason string `json:"reason"`          // Human-readable reason for failure
	Value  string `json:"value,omitempty"` // The raw value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %q)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
