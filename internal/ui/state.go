package ui

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	// Input seeds the Typst box and is converted on start.
	Input string
	// InputPath is a Typst file whose changes are fed into the input box.
	InputPath string
	Dark      bool
}
