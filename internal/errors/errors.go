// Package errors provides typed domain errors for the costing engine.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeValidation indicates an invalid input record
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeEmptyInput indicates the filtered period had no revenue lines
	TypeEmptyInput Type = "EMPTY_INPUT"

	// TypeCostModel indicates a cost-model definition error
	TypeCostModel Type = "COST_MODEL_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error is a domain error with a category and optional context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a category and message
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// Wrapf wraps an error with a category and formatted message
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsType reports whether err is a domain error of the given type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// Validation creates a validation error naming the offending record and field
func Validation(record int, field, reason string) *Error {
	return Newf(TypeValidation, "record %d: field %q %s", record, field, reason).
		WithContext("record", record).
		WithContext("field", field)
}

// EmptyInput creates the fatal no-data error for a period key
func EmptyInput(periodKey string) *Error {
	if periodKey == "" {
		return New(TypeEmptyInput, "no revenue lines matched the requested filters")
	}
	return Newf(TypeEmptyInput, "no revenue lines for period %s", periodKey).
		WithContext("period", periodKey)
}

// CostModel creates a cost-model definition error
func CostModel(message string, cause error) *Error {
	return Wrap(TypeCostModel, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
