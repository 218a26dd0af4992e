package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrCollectionNotFound  = errors.New("collection not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmptyIngredientList = errors.New("at least one ingredient is required")
	ErrDuplicateTitle      = errors.New("you already have a recipe with this title")
	ErrDuplicateCollection = errors.New("you already have a collection with this title")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrUsernameTaken       = errors.New("this username is taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
)

// FieldErrors maps a field name to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

func (fe FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		fe[field] = append(fe[field], msgs...)
	}
}

func (fe FieldErrors) String() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(fe[f], " ")))
	}
	return strings.Join(parts, "; ")
}

// ValidationError carries every field problem found in one submission. Nothing
// was persisted when it is returned.
type ValidationError struct {
	Fields FieldErrors
	// Err is set when a specific rule failed, e.g. ErrEmptyIngredientList.
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConflictError reports a uniqueness violation against an existing row.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	return e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Fields presents the conflict the same way as a validation failure.
func (e *ConflictError) Fields() FieldErrors {
	return FieldErrors{e.Field: {capitalize(e.Err.Error()) + "."}}
}

// StorageError wraps a database or image store failure. The write it interrupted
// was rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
