package domain

import "fmt"

// ValidationError represents malformed or out-of-range input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is enables errors.Is matching on ValidationError.
func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

// InvalidStateError represents a transition attempted from a state that
// forbids it.
type InvalidStateError struct {
	Reason string
}

func (e InvalidStateError) Error() string {
	if e.Reason == "" {
		return "invalid state"
	}
	return e.Reason
}

func (e InvalidStateError) Is(target error) bool {
	_, ok := target.(InvalidStateError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidStateError)
	return ok
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ConflictError represents a stale-version write: the stored entity has
// advanced past the version the caller read.
type ConflictError struct {
	Resource string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return "version conflict"
	}
	return fmt.Sprintf("%s version conflict", e.Resource)
}

func (e ConflictError) Is(target error) bool {
	_, ok := target.(ConflictError)
	if ok {
		return true
	}
	_, ok = target.(*ConflictError)
	return ok
}

// Sentinel errors for errors.Is matching.
var (
	ErrValidation   = ValidationError{}
	ErrInvalidState = InvalidStateError{}
	ErrNotFound     = NotFoundError{}
	ErrConflict     = ConflictError{}
)
