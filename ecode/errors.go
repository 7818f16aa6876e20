package ecode

import (
	"errors"
	"fmt"
	"strings"
)

const (
	emptyMsg    = "empty"
	invalidMsg  = "invalid"
	negativeMsg = "cannot be negative"
)

var (
	// ErrInvalidArgument reports a caller supplied value outside its domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrParse reports malformed filter or sort input.
	ErrParse = errors.New("parse error")
	// ErrNotFound reports a missing get or delete target.
	ErrNotFound = errors.New("not found")
	// ErrBackend reports a failed search, index or delete request.
	ErrBackend = errors.New("backend error")
)

// BackendError carries the diagnostic reported by the search backend.
type BackendError struct {
	Message string
	Debug   string
}

// NewBackendError creates a backend error, defaulting the debug detail
func NewBackendError(message, debug string) *BackendError {
	if debug == "" {
		debug = "No Debug Information"
	}
	return &BackendError{Message: message, Debug: debug}
}

// Error joins the message and diagnostic detail on separate lines
func (e *BackendError) Error() string {
	return e.Message + "\n" + e.Debug
}

// Unwrap lets errors.Is match ErrBackend
func (e *BackendError) Unwrap() error {
	return ErrBackend
}

// InvalidArgument returns an ErrInvalidArgument naming the offending value
func InvalidArgument(name string, value any) error {
	return fmt.Errorf("%w: %s %v %s", ErrInvalidArgument, name, value, negativeMsg)
}

// ParseError wraps a decoding failure as ErrParse
func ParseError(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrParse, FieldIsInvalid(what))
	}
	return fmt.Errorf("%w: %s: %v", ErrParse, FieldIsInvalid(what), err)
}

// NoSuchObject returns the not found error for a document id
func NoSuchObject(id string) error {
	return fmt.Errorf("%w: no such object with id %s", ErrNotFound, id)
}

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], emptyMsg)
	}
	return emptyMsg
}

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], invalidMsg)
	}
	return invalidMsg
}

// IsAlreadyExists reports whether a backend message describes an existing resource
func IsAlreadyExists(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "exists")
}
