package levels

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange    = errors.New("cell index out of range")
	ErrInvalidFormat = errors.New("object reference must be exactly 2 characters")
	ErrNotFound      = errors.New("no object at this location")
)

// OpError reports a rejected insert or remove. The level is unchanged when
// one is returned.
type OpError struct {
	Op    string
	Index int
	Ref   string
	Err   error
}

func (e *OpError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("levels: %s %q at %d: %v", e.Op, e.Ref, e.Index, e.Err)
	}
	return fmt.Sprintf("levels: %s at %d: %v", e.Op, e.Index, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
