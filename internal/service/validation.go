// Package service implements business logic, validation and
// orchestration between the HTTP handlers and the repositories.  The
// reservation engine's atomicity lives in the repository transactions;
// this layer enforces input invariants before anything reaches a
// transaction and maps store outcomes onto the API error taxonomy.
package service

import (
	"fmt"
	"strings"
)

// FieldError pinpoints one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level failures for a request.  A
// request is rejected before any store call when this is non-empty.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validator accumulates field errors and produces a *ValidationError
// only when at least one check failed.
type validator struct {
	fields []FieldError
}

func (v *validator) add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

// isValidEmail does a basic structural check, enough to catch typos
// without importing a mail parser.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
