package render

import (
	"errors"
	"fmt"
)

// Error kinds for the three rendering stages.
var (
	ErrFormulaSyntax    = errors.New("formula syntax error")
	ErrVectorParse      = errors.New("vector parse error")
	ErrBitmapAllocation = errors.New("bitmap allocation error")
)

// StageError records which rendering stage failed and why.
type StageError struct {
	Kind  error
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
