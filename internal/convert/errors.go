package convert

import "errors"

// Error kinds reported by the converter. Match them with errors.Is.
var (
	ErrConverterUnavailable = errors.New("converter unavailable")
	ErrPipeWrite            = errors.New("pipe write failed")
	ErrPipeRead             = errors.New("pipe read failed")
	ErrConverterExit        = errors.New("converter exited with an error")
)

// Error is returned by Converter.Convert. Its message is meant to be shown to
// the user as is.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}
