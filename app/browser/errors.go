package browser

import (
	"errors"
	"fmt"
)

// IOError is an OS failure while listing, renaming, copying, removing
// or recreating entries
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ErrInvalidState is wrapped by every StateError
var ErrInvalidState = errors.New("invalid state")

// StateError is returned for operations that can't run in the current
// state, e.g. on an invalid index, the parent entry, an empty clipboard
// or an empty undo stack
type StateError struct {
	Op     string
	Reason string
}

func (e *StateError) Error() string {
	return e.Op + ": " + e.Reason
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
