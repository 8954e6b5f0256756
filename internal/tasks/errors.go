package tasks

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the task id does not exist.
var ErrNotFound = errors.New("task not found")

// ErrEmptyInput indicates a create call with blank raw input.
var ErrEmptyInput = errors.New("task input cannot be empty")

// InvalidTransitionError reports a status transition that lost a race or
// attempted an illegal edge. The attempted write was dropped and the stored
// task is untouched.
type InvalidTransitionError struct {
	ID       string
	Expected Status
	Actual   Status
	Next     Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for task %s: expected status %q (actual %q), wanted %q",
		e.ID, e.Expected, e.Actual, e.Next)
}

// IsInvalidTransition reports whether err wraps an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
