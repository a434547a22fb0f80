package batchwrite

import (
	"errors"
	"fmt"
)

var (
	// ErrNilClient is returned when a Writer has no client to call.
	ErrNilClient = errors.New("writeall: nil batch write client")

	// ErrRetriesExhausted matches (via errors.Is) a BatchError whose chunk
	// kept failing with retryable errors until MaxRetries calls were spent.
	ErrRetriesExhausted = errors.New("writeall: retry budget exhausted")
)

// BatchError is returned when a chunk cannot be committed.
// Err is the store error exactly as the client returned it.
type BatchError struct {
	// Table is the table the failing chunk was addressed to.
	Table string

	// Attempts is the number of calls made for the chunk, including
	// progress rounds.
	Attempts int

	// Exhausted is true when the chunk failed on a retryable error because
	// the retry budget was spent.
	Exhausted bool

	// Err is the underlying store error.
	Err error
}

func (e *BatchError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("writeall: table %s: retries exhausted after %d calls: %v", e.Table, e.Attempts, e.Err)
	}
	return fmt.Sprintf("writeall: table %s: %v", e.Table, e.Err)
}

// Unwrap returns the store error.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is reports budget exhaustion as ErrRetriesExhausted.
func (e *BatchError) Is(target error) bool {
	return target == ErrRetriesExhausted && e.Exhausted
}
