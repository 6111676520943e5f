// Copyright (c) 2026 Contentforge Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMenuNotFound is returned when a referenced menu does not exist.
var ErrMenuNotFound = errors.New("menu not found")

// ValidationError reports a malformed input payload. Fields maps field
// names to human-readable messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports a uniqueness conflict on a single field.
type ConflictError struct {
	Field   string
	Message string
}

// NewSlugConflict creates the conflict error for a taken slug.
func NewSlugConflict(slug string) *ConflictError {
	return &ConflictError{
		Field:   "slug",
		Message: fmt.Sprintf("The slug %s is already taken", slug),
	}
}

func (e *ConflictError) Error() string {
	return e.Field + ": " + e.Message
}
