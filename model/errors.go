package model

import (
	"errors"
	"fmt"
)

// ErrBeatNotFound is returned when an operation references a beat id that
// does not exist in the active backend.
var ErrBeatNotFound = errors.New("beat not found")

// ValidationError reports the first malformed or missing field in a caller
// payload. Tier is empty for fields that are not tier-scoped.
type ValidationError struct {
	Field  string
	Tier   Tier
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Tier != "" {
		return fmt.Sprintf("invalid %s.%s: %s", e.Field, e.Tier, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a storage backend failure that is not a validation
// or not-found condition.
type PersistenceError struct {
	Backend string
	Op      string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ExternalServiceError wraps a failed call to a downstream collaborator such
// as the payments platform or the object store.
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
