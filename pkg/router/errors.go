package router

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionActive is returned by Begin while a route is in progress.
	ErrSessionActive = errors.New("route already in progress")

	// ErrNoSession is returned by operations that need a route in progress.
	ErrNoSession = errors.New("no route in progress")
)

// InvariantError reports a broken internal invariant. The session has been
// aborted by the time it is returned.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("route invariant violated during %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
