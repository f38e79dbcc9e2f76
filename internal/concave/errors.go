package concave

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks every failure caused by the caller's arguments:
// malformed contours, bad parameters or an empty image shape.
var ErrInvalidInput = errors.New("invalid input")

// StageError reports the pipeline stage a detection failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("concave point detection failed in %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func invalid(stage string, err error) error {
	return &StageError{Stage: stage, Err: fmt.Errorf("%w: %w", ErrInvalidInput, err)}
}
