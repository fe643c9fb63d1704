// SPDX-License-Identifier: MIT

// Package validate provides configuration validation utilities for snvconf.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Error represents a validation error
type Error struct {
	Field   string // Field name that failed validation
	Value   any    // The invalid value
	Message string // Human-readable error message
	Reason  error  // Optional classification, matched with errors.Is
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap exposes the classification sentinel.
func (e Error) Unwrap() error {
	return e.Reason
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
// Views returned by Reason share the same error list.
type Validator struct {
	errors *[]Error
	reason error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	errs := make([]Error, 0)
	return &Validator{errors: &errs}
}

// Reason returns a view of v that tags every error it records with reason.
func (v *Validator) Reason(reason error) *Validator {
	return &Validator{errors: v.errors, reason: reason}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value any) {
	*v.errors = append(*v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
		Reason:  v.reason,
	})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(*v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return *v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(*v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(*v.errors))
	copy(copied, *v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the validation failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}

	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	// Multiple errors - format as list
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is and errors.As see every field error.
func (e ValidationError) Unwrap() []error {
	out := make([]error, len(e.errors))
	for i, err := range e.errors {
		out[i] = err
	}
	return out
}

// Fields returns the names of the fields that failed, in recording order.
func (e ValidationError) Fields() []string {
	out := make([]string, 0, len(e.errors))
	for _, err := range e.errors {
		if !slices.Contains(out, err.Field) {
			out = append(out, err.Field)
		}
	}
	return out
}

// NotEmpty validates that a string is not empty or whitespace-only
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "value cannot be empty", value)
	}
}

// OneOf validates that a value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) {
	if slices.Contains(allowed, value) {
		return
	}
	v.AddError(field,
		fmt.Sprintf("value must be one of %v, got %q", allowed, value),
		value)
}

// Positive validates that a number is positive (> 0)
func (v *Validator) Positive(field string, value int) {
	if value <= 0 {
		v.AddError(field, fmt.Sprintf("value must be positive, got %d", value), value)
	}
}

// NonNegative validates that a number is non-negative (>= 0)
func (v *Validator) NonNegative(field string, value int) {
	if value < 0 {
		v.AddError(field, fmt.Sprintf("value cannot be negative, got %d", value), value)
	}
}

// Pattern validates that value matches re in full.
func (v *Validator) Pattern(field, value string, re *regexp.Regexp) {
	if !re.MatchString(value) {
		v.AddError(field, fmt.Sprintf("value %q does not match %s", value, re.String()), value)
	}
}

// PathSyntax checks that a path string is well formed without touching the
// file system: non-empty, no NUL bytes, no surrounding whitespace.
func (v *Validator) PathSyntax(field, path string) {
	switch {
	case path == "":
		v.AddError(field, "path cannot be empty", path)
	case strings.ContainsRune(path, 0):
		v.AddError(field, "path contains NUL byte", path)
	case strings.TrimSpace(path) != path:
		v.AddError(field, "path has leading or trailing whitespace", path)
	}
}

// IsFieldError reports whether err carries a validation failure for field.
func IsFieldError(err error, field string) bool {
	var ve ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	for _, e := range ve.errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
