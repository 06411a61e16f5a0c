// Package errors provides typed errors for the tariff pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates the input file could not be read
	TypeInput Type = "INPUT_ERROR"

	// TypeFormat indicates no read strategy could make sense of the input
	TypeFormat Type = "FORMAT_ERROR"

	// TypeEncoding indicates the input bytes could not be decoded
	TypeEncoding Type = "ENCODING_ERROR"

	// TypeVocabulary indicates an invalid classifier or column vocabulary
	TypeVocabulary Type = "VOCABULARY_ERROR"

	// TypeOutput indicates the records could not be written
	TypeOutput Type = "OUTPUT_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"
)

// Error is a domain error with context
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

// WithContext attaches a key/value pair that is logged alongside the error
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

// Wrap wraps an error with a type and message
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{Type: errType, Message: message, Cause: cause}
}

// Wrapf wraps an error with a formatted message
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsType reports whether any error in err's chain is a *Error of type t
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Input creates an input error
func Input(message string, cause error) *Error {
	return Wrap(TypeInput, message, cause)
}

// Format creates a format detection error
func Format(message string) *Error {
	return New(TypeFormat, message)
}

// Vocabulary creates a vocabulary error
func Vocabulary(message string, cause error) *Error {
	return Wrap(TypeVocabulary, message, cause)
}

// Output creates an output error
func Output(message string, cause error) *Error {
	return Wrap(TypeOutput, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}
