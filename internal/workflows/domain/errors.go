package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a workflow does not exist in the caller's organization.
	ErrNotFound = errors.New("workflow not found")
	// ErrUnauthenticated is returned when an operation requiring a session has none.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError lists per-field problems found before a write. Nothing is
// persisted when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns e when it holds at least one problem.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// UnresolvedRecipientError means a matched workflow produced no destinations.
type UnresolvedRecipientError struct {
	WorkflowID    uuid.UUID
	RecipientType RecipientType
	Reason        string
}

func (e *UnresolvedRecipientError) Error() string {
	return fmt.Sprintf("workflow %s: no recipients for %s: %s", e.WorkflowID, e.RecipientType, e.Reason)
}

// DeliveryError wraps a transport failure for one destination.
type DeliveryError struct {
	WorkflowID uuid.UUID
	To         string
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("workflow %s: delivery to %s failed: %v", e.WorkflowID, e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// WrapStore returns err unchanged when it is nil, ErrNotFound or already a
// StoreError, and wraps it otherwise.
func WrapStore(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
