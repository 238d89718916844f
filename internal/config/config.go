// Package config parses the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/peoxin/math-typst2latex/internal/convert"
)

// Theme selects how the preview is coloured.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Config struct {
	// Converter is the pandoc executable.
	Converter string
	// Timeout bounds one conversion; zero means no limit.
	Timeout time.Duration
	Theme   Theme
	// LogFile receives diagnostics. Empty discards them.
	LogFile string
	Debug   bool
	// Expression, when set, is converted once and printed instead of starting
	// the interface.
	Expression string
	HasExpr    bool
	// InputFile seeds the input and is reloaded when it changes.
	InputFile string
}

// Parse reads args (without the program name).
func Parse(name string, args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}
	var theme string

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: %s [flags] [file.typ]\n\n", name)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Converter, "pandoc", convert.DefaultCommand, "converter executable")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "abort a conversion after this long (0 waits forever)")
	fs.StringVar(&theme, "theme", string(ThemeAuto), "preview colours: auto, dark or light")
	fs.StringVar(&cfg.LogFile, "log", "", "write diagnostics to this file")
	fs.BoolVar(&cfg.Debug, "debug", false, "log debug messages")
	fs.Func("e", "convert `expr` once, print the LaTeX and exit", func(s string) error {
		cfg.Expression = s
		cfg.HasExpr = true
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.InputFile = fs.Arg(0)
	default:
		err := fmt.Errorf("expected at most one input file, got %d", fs.NArg())
		fmt.Fprintln(output, err)
		return nil, err
	}

	// fs.Parse reports its own errors; these are not seen by the flag set.
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(output, err)
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("unknown theme %q", c.Theme)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.Converter == "" {
		return errors.New("converter executable must not be empty")
	}
	if c.HasExpr && c.InputFile != "" {
		return errors.New("-e and an input file are mutually exclusive")
	}
	return nil
}
