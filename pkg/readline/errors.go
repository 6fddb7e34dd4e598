package readline

import (
	"errors"
	"fmt"
)

// ErrInterrupted is returned when the user presses Ctrl+C.
var ErrInterrupted = errors.New("interrupted by user")

// ErrNoTerminal is returned by New when it is given no output.
var ErrNoTerminal = errors.New("no output writer")

// InterruptError carries the line as it was when the user interrupted it.
type InterruptError struct {
	Partial string
}

func (e *InterruptError) Error() string {
	return ErrInterrupted.Error()
}

func (e *InterruptError) Unwrap() error {
	return ErrInterrupted
}

// EventNotFoundError reports a history designator that matched nothing.
type EventNotFoundError struct {
	Designator string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("%s: event not found", e.Designator)
}
