package dynarray

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation is returned when a buffer for the requested number of slots cannot be obtained.
	ErrAllocation = errors.New("dynarray: allocation failed")
	// ErrOutOfRange is returned by checked access when the index is not a live element.
	ErrOutOfRange = errors.New("dynarray: index out of range")
	// ErrInvalidLength is returned when a negative element count is requested.
	ErrInvalidLength = errors.New("dynarray: invalid length")
	// ErrPointerType is returned when raw memory is requested for a type holding pointers.
	ErrPointerType = errors.New("dynarray: element type contains pointers")
	// ErrBudgetExceeded is returned when a LimitedAllocator has no budget left.
	ErrBudgetExceeded = errors.New("dynarray: memory budget exceeded")
	// ErrUnsupported is returned by memory sources not available on this platform.
	ErrUnsupported = errors.New("dynarray: unsupported on this platform")
)

// ElementError reports a failed element construction. Index is the slot
// being built when the failure happened; all slots before it were already
// destroyed by the time the error is returned.
type ElementError struct {
	Op    string
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("dynarray: %s element %d: %v", e.Op, e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

func elementError(op string, index int, err error) error {
	return &ElementError{Op: op, Index: index, Err: err}
}
