// Package pipeline holds the converter state and the reducer that drives
// conversion and rendering in response to user events.
package pipeline

import (
	"errors"
	"image"
)

// ErrorPrefix marks an Output that holds a conversion error instead of LaTeX.
const ErrorPrefix = "Error"

// Copy errors returned by Controller.CopyOutput.
var (
	ErrCopyDisabled = errors.New("nothing rendered to copy")
	ErrNoClipboard  = errors.New("no clipboard configured")
)

// State is everything the window shows.
type State struct {
	// Input is the Typst math typed by the user.
	Input string
	// Output is the converted LaTeX, or "Error: ..." after a failed conversion.
	Output string
	// Bitmap is the rendered Output, nil when absent.
	Bitmap *image.NRGBA
	// CopyEnabled is true exactly when Bitmap is present.
	CopyEnabled bool
}

// HasBitmap reports whether a rendered bitmap is present.
func (s State) HasBitmap() bool {
	return s.Bitmap != nil
}

func (s State) withoutBitmap() State {
	s.Bitmap = nil
	s.CopyEnabled = false
	return s
}

// Event is a user action handled by Controller.Apply.
type Event interface {
	event()
}

// InputEdited replaces Input and triggers conversion.
type InputEdited struct{ Text string }

// OutputEdited replaces Output and triggers rendering only.
type OutputEdited struct{ Text string }

// Clear resets the state.
type Clear struct{}

// Copy sends Output to the clipboard.
type Copy struct{}

func (InputEdited) event()  {}
func (OutputEdited) event() {}
func (Clear) event()        {}
func (Copy) event()         {}
