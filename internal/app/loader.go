package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peoxin/math-typst2latex/internal/ui"
)

// LoadInitialState reads the optional Typst file and prepares the UI state.
func LoadInitialState(target string) (ui.State, error) {
	if target == "" {
		return ui.State{}, nil
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return ui.State{}, err
	}
	info, err := os.Stat(absTarget)
	if err != nil {
		return ui.State{}, err
	}
	if info.IsDir() {
		return ui.State{}, fmt.Errorf("%s is a directory, expected a Typst file", target)
	}

	input, err := ui.ReadInputFile(absTarget)
	if err != nil {
		return ui.State{}, err
	}
	return ui.State{
		Input:     input,
		InputPath: absTarget,
	}, nil
}
