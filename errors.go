package persist

import (
	"errors"
	"fmt"
)

// ErrNotPersistable reports a type whose declaration cannot participate in
// persistence: missing descriptor, missing constructor, exported-style field
// names, or a malformed list declaration.
var ErrNotPersistable = errors.New("type cannot be persisted")

// ErrIdentifier reports an identifier problem: zero or multiple identifier
// fields declared, or an identifier that is unset or malformed at
// persist/load time.
var ErrIdentifier = errors.New("invalid identifier")

// SchemaError captures the failing type and field of a schema build.
type SchemaError struct {
	Type  string
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("persist: schema for %q field %q: %v", e.Type, e.Field, e.Err)
	}
	return fmt.Sprintf("persist: schema for %q: %v", e.Type, e.Err)
}

func (e *SchemaError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PersistenceError captures the operation, type, and store key of a failed
// persist or load walk. The walk stops at the failing node; fields already
// written stay written.
type PersistenceError struct {
	Op   string
	Type string
	Key  string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Key != "" {
		return fmt.Sprintf("persist: %s %q key %q: %v", e.Op, e.Type, e.Key, e.Err)
	}
	return fmt.Sprintf("persist: %s %q: %v", e.Op, e.Type, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func notPersistable(typ, field, reason string) *SchemaError {
	return &SchemaError{Type: typ, Field: field, Err: fmt.Errorf("%w: %s", ErrNotPersistable, reason)}
}

func identifierSchemaErr(typ, reason string) *SchemaError {
	return &SchemaError{Type: typ, Err: fmt.Errorf("%w: %s", ErrIdentifier, reason)}
}
