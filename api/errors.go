// File: api/errors.go
// Package api defines error types shared across hioload-sched.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrRuntimeStarted  = fmt.Errorf("runtime already started")
	ErrRuntimeStopped  = fmt.Errorf("runtime is stopped")
	ErrShardClosed     = fmt.Errorf("shard is closed")
	ErrShardBusy       = fmt.Errorf("shard inbox is full")
	ErrShardOutOfRange = fmt.Errorf("shard index out of range")
	ErrTooManyGroups   = fmt.Errorf("scheduling group limit reached")
	ErrNoSuchGroup     = fmt.Errorf("no such scheduling group")
	ErrSlotAfterStart  = fmt.Errorf("slot registration after runtime start")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotSupported    = fmt.Errorf("operation not supported")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeNotSupported
	ErrCodeInternal
	ErrCodeNoSuchGroup
	ErrCodeSlotTypeMismatch
	ErrCodeSlotOutOfRange
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsInvariantViolation reports whether err is a fatal invariant fault:
// access to a missing scheduling group, a slot type mismatch, or a slot
// index beyond the record's storage. Such faults are raised as panics and
// must never be swallowed by task runners.
func IsInvariantViolation(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ErrCodeNoSuchGroup, ErrCodeSlotTypeMismatch, ErrCodeSlotOutOfRange:
		return true
	default:
		return false
	}
}
