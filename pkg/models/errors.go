package models

import "fmt"

// ValidationError reports a record field that violates the schema.
type ValidationError struct {
	Record  string
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("validation error for %s field '%s': %s (value: %v)", e.Record, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(record, field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Record:  record,
		Field:   field,
		Value:   value,
		Message: message,
	}
}
