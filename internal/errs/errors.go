// Package errs provides the unified error type used across autoseq.
//
// Drivers, the introspector, the foreign-key resolver and the output sinks
// wrap their native errors into *errs.Error. The generator and the CLI inspect
// them through the Is* predicates and never import driver packages.
//
// Usage:
//
//	// In a driver:
//	return errs.Wrap(errs.ErrKindTimeout, "query timed out", pgErr)
//
//	// In the generator:
//	if errs.IsIntrospection(err) {
//	    return err // fatal for the run
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing engine-specific codes.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no rows, no table, no bucket
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindQueryFailed              // SQL or storage operation error
	ErrKindInvalidInput             // bad arguments or configuration
	ErrKindPermissionDenied         // access denied / auth failure

	ErrKindIntrospection   // column metadata could not be retrieved; fatal
	ErrKindForeignKeyQuery // foreign-key discovery failed; degraded
	ErrKindWrite           // a generated file could not be persisted; fatal
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindIntrospection:
		return "introspection_failed"
	case ErrKindForeignKeyQuery:
		return "foreign_key_query_failed"
	case ErrKindWrite:
		return "write_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by autoseq subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with a formatted message.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsNotFound reports whether err represents a "not found" result.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsIntrospection reports whether err means a table could not be described.
func IsIntrospection(err error) bool {
	return KindOf(err) == ErrKindIntrospection
}

// IsForeignKeyQuery reports whether err came from foreign-key discovery.
func IsForeignKeyQuery(err error) bool {
	return KindOf(err) == ErrKindForeignKeyQuery
}

// IsWrite reports whether err means a generated artifact was not persisted.
func IsWrite(err error) bool {
	return KindOf(err) == ErrKindWrite
}

// KindOf extracts the outermost ErrKind from the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
