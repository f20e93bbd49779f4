// Package errors defines the error categories shared by every module. Use cases wrap a
// category with context; the HTTP layer maps the category to a status code and a stable
// error code.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a clash with existing data, such as a duplicate key.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates malformed or semantically wrong input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState indicates the action is not valid for the resource's current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated actor may not perform the action.
	ErrForbidden = errors.New("forbidden")
)

// CodeInternal is reported for errors outside every category.
const CodeInternal = "internal_error"

var codes = []struct {
	category error
	code     string
}{
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrInvalidInput, "invalid_input"},
	{ErrInvalidState, "invalid_state"},
	{ErrUnauthorized, "unauthorized"},
	{ErrForbidden, "forbidden"},
}

// Code returns the stable machine-readable code for err's category, or CodeInternal.
// It returns "" for a nil error.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.category) {
			return c.code
		}
	}
	return CodeInternal
}

// New returns an error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message and keeps it in the chain. Wrap(nil, ...) is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
