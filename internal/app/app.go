package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/peoxin/math-typst2latex/internal/clip"
	"github.com/peoxin/math-typst2latex/internal/config"
	"github.com/peoxin/math-typst2latex/internal/convert"
	"github.com/peoxin/math-typst2latex/internal/pipeline"
	"github.com/peoxin/math-typst2latex/internal/render"
	"github.com/peoxin/math-typst2latex/internal/ui"
)

// Run executes the Bubble Tea program for the converter.
func Run(cfg *config.Config, logger *slog.Logger) error {
	converter := newConverter(cfg, logger)
	if !converter.Available() {
		logger.Warn("converter not found on PATH", "command", converter.Command)
	}
	clipboard := clip.New(logger)
	if !clipboard.Available() {
		logger.Info("copying is disabled for this session")
	}

	ctrl := &pipeline.Controller{
		Converter:  converter,
		Rasterizer: render.New(logger),
		Clipboard:  clipboard,
		Logger:     logger,
	}

	state, err := LoadInitialState(cfg.InputFile)
	if err != nil {
		return err
	}
	state.Dark = isDark(cfg.Theme)

	return runProgram(state, ctrl)
}

func runProgram(state ui.State, ctrl *pipeline.Controller) error {
	program := tea.NewProgram(ui.NewModel(state, ctrl), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// ErrConversion is returned by Once when the expression could not be
// converted.
var ErrConversion = errors.New("conversion failed")

// Once converts cfg.Expression and writes the LaTeX, or the error text shown
// in the interface, to w.
func Once(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	ctrl := &pipeline.Controller{
		Converter: newConverter(cfg, logger),
		Logger:    logger,
		Context:   ctx,
	}
	s := ctrl.Apply(pipeline.State{}, pipeline.InputEdited{Text: cfg.Expression})
	if _, err := fmt.Fprintln(w, s.Output); err != nil {
		return err
	}
	if strings.HasPrefix(s.Output, pipeline.ErrorPrefix+": ") {
		return ErrConversion
	}
	return nil
}

func newConverter(cfg *config.Config, logger *slog.Logger) *convert.Converter {
	c := convert.New(logger)
	c.Command = cfg.Converter
	c.Timeout = cfg.Timeout
	return c
}

func isDark(theme config.Theme) bool {
	switch theme {
	case config.ThemeDark:
		return true
	case config.ThemeLight:
		return false
	default:
		return lipgloss.HasDarkBackground()
	}
}
