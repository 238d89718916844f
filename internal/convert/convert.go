package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultCommand is the converter looked up on PATH.
	DefaultCommand = "pandoc"

	mathDelimiter = "$"
	displayOpen   = `\[`
	displayClose  = `\]`
)

// DefaultArgs selects Typst input and LaTeX output and reads from stdin.
var DefaultArgs = []string{"-f", "typst", "-t", "latex", "--"}

// TextConverter turns source markup into LaTeX math.
type TextConverter interface {
	Convert(ctx context.Context, input string) (string, error)
}

// Converter runs an external converter process once per call.
type Converter struct {
	Command string
	Args    []string
	// Env is appended to the current environment of the child.
	Env []string
	// Timeout bounds a single conversion. Zero waits forever.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New returns a Converter invoking pandoc with the Typst to LaTeX arguments.
func New(logger *slog.Logger) *Converter {
	return &Converter{
		Command: DefaultCommand,
		Args:    append([]string(nil), DefaultArgs...),
		Logger:  logger,
	}
}

// Available reports whether the converter command resolves to an executable.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.command())
	return err == nil
}

// Convert wraps input as a math expression, pipes it through the converter and
// returns the cleaned LaTeX. Failures are *Error values whose message is
// suitable for display.
func (c *Converter) Convert(ctx context.Context, input string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	name := c.command()
	cmd := exec.CommandContext(ctx, name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", newError(ErrPipeWrite, "Failed to open stdin", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		c.logger().Debug("converter start failed", "command", name, "error", err)
		return "", newError(ErrConverterUnavailable, unavailableMessage(name), err)
	}

	if _, err := io.WriteString(stdin, Payload(input)); err != nil {
		stdin.Close()
		_ = cmd.Wait()
		return "", newError(ErrPipeWrite, "Failed to write to stdin", err)
	}
	if err := stdin.Close(); err != nil {
		_ = cmd.Wait()
		return "", newError(ErrPipeWrite, "Failed to write to stdin", err)
	}

	err = cmd.Wait()
	c.logger().Debug("converter finished",
		"command", name,
		"duration", time.Since(start),
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len())

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.DeadlineExceeded) {
		msg := fmt.Sprintf("%s timed out after %s", filepath.Base(name), c.Timeout)
		return "", newError(ErrConverterExit, msg, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return CleanOutput(stdout.String()), nil
	case errors.As(err, &exitErr):
		return "", newError(ErrConverterExit, CleanError(stderr.String()), err)
	default:
		return "", newError(ErrPipeRead, "Failed to read stdout and stderr", err)
	}
}

func (c *Converter) command() string {
	if c.Command == "" {
		return DefaultCommand
	}
	return c.Command
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Payload surrounds input with math delimiters so the converter parses it as
// an equation rather than prose.
func Payload(input string) string {
	return mathDelimiter + "\n" + input + "\n" + mathDelimiter
}

// CleanOutput trims the converter output and drops the display math brackets
// around it.
func CleanOutput(out string) string {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, displayOpen)
	out = strings.TrimSuffix(out, displayClose)
	return strings.TrimSpace(out)
}

// CleanError drops the location prefix (everything up to the first colon)
// from a converter error message.
func CleanError(msg string) string {
	if _, rest, found := strings.Cut(msg, ":"); found {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(msg)
}

func unavailableMessage(name string) string {
	return fmt.Sprintf("Failed to execute %s. Do you have it installed?", filepath.Base(name))
}
