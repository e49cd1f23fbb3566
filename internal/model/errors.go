package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownUser      = errors.New("user is not registered")
	ErrUnknownPersona   = errors.New("persona does not exist")
	ErrCompletionFailed = errors.New("completion failed")
)

// CompletionFailure discriminates why a completion call failed, so the
// transport and tests can tell a dead endpoint from a garbage body.
type CompletionFailure int8

const (
	CompletionFailureNetwork = CompletionFailure(iota)
	CompletionFailureStatus
	CompletionFailureMalformed
	CompletionFailurePrompt
)

func (f CompletionFailure) String() string {
	switch f {
	case CompletionFailureNetwork:
		return "network"
	case CompletionFailureStatus:
		return "status"
	case CompletionFailureMalformed:
		return "malformed"
	case CompletionFailurePrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// CompletionError carries the failure cause of one completion call.
// It matches errors.Is(err, ErrCompletionFailed).
type CompletionError struct {
	Failure CompletionFailure
	Status  int
	Err     error
}

func (e *CompletionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("completion failed (%s, status %d): %v", e.Failure, e.Status, e.Err)
	}
	return fmt.Sprintf("completion failed (%s): %v", e.Failure, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

func (e *CompletionError) Is(target error) bool { return target == ErrCompletionFailed }

// PersistenceError marks a store write failure. Fatal for the current
// request only; prior steps stay durable.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }
