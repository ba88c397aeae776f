// Package errors provides structured, actionable errors for the Ostinato
// CLI. Each error carries a category, a plain-language message and an
// optional suggestion shown to the user.
package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryRuntime    Category = "runtime"
	CategoryCLI        Category = "cli"
)

// Error is a structured CLI error.
type Error struct {
	// Category is the error category.
	Category Category

	// Message describes what went wrong in plain language.
	Message string

	// Suggestion hints how to fix it. Optional.
	Suggestion string

	// Cause is the underlying error. Optional.
	Cause error
}

// New creates a structured error.
func New(category Category, message string) *Error {
	return &Error{Category: category, Message: message}
}

// WithSuggestion attaches a fix hint.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal output.
func (e *Error) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ERROR [%s]: %s\n", e.Category, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&sb, "\n  %v\n", e.Cause)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "\n  Hint: %s\n", e.Suggestion)
	}
	return sb.String()
}
