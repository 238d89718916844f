package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/peoxin/math-typst2latex/internal/convert"
	"github.com/peoxin/math-typst2latex/internal/render"
)

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string) error
}

// Controller applies events to a State. All work happens synchronously in
// Apply.
type Controller struct {
	Converter  convert.TextConverter
	Rasterizer render.Rasterizer
	Clipboard  Clipboard
	// Dark reports whether the display currently uses a dark background.
	Dark   func() bool
	Logger *slog.Logger
	// Context bounds converter runs. Nil means context.Background.
	Context context.Context
}

// Apply returns the state that results from ev.
func (c *Controller) Apply(s State, ev Event) State {
	switch ev := ev.(type) {
	case InputEdited:
		s.Input = ev.Text
		s = s.withoutBitmap()
		latex, err := c.Converter.Convert(c.ctx(), s.Input)
		if err != nil {
			c.logger().Debug("conversion failed", "error", err)
			s.Output = ErrorPrefix + ": " + err.Error()
			return s
		}
		s.Output = latex
		return c.render(s)

	case OutputEdited:
		s.Output = ev.Text
		return c.render(s.withoutBitmap())

	case Clear:
		return State{}

	case Copy:
		// the bridge logs its own failures
		_ = c.CopyOutput(s)
		return s
	}
	return s
}

// CopyOutput sends s.Output to the clipboard and reports whether it got there.
// The state is never changed by copying.
func (c *Controller) CopyOutput(s State) error {
	if !s.CopyEnabled {
		return ErrCopyDisabled
	}
	if c.Clipboard == nil {
		return ErrNoClipboard
	}
	return c.Clipboard.Copy(s.Output)
}

// Rerender renders Output again, for example after the background changed
// between dark and light.
func (c *Controller) Rerender(s State) State {
	return c.render(s.withoutBitmap())
}

// render runs the render sub-pipeline on s.Output. s must already be without
// a bitmap.
func (c *Controller) render(s State) State {
	if s.Output == "" || strings.HasPrefix(s.Output, ErrorPrefix) {
		return s
	}
	if c.Rasterizer == nil {
		return s
	}
	img, err := c.Rasterizer.Render(s.Output, c.dark())
	if err != nil {
		c.logger().Warn("Failed to render formula", "error", err)
		return s
	}
	s.Bitmap = img
	s.CopyEnabled = true
	return s
}

func (c *Controller) dark() bool {
	return c.Dark != nil && c.Dark()
}

func (c *Controller) ctx() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
