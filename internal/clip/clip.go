// Package clip copies text to the system clipboard.
package clip

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
)

var (
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrClipboardWrite       = errors.New("clipboard write failed")
)

// Backend is the platform clipboard.
type Backend interface {
	WriteAll(text string) error
	Unsupported() bool
}

type systemBackend struct{}

func (systemBackend) WriteAll(text string) error { return clipboard.WriteAll(text) }
func (systemBackend) Unsupported() bool          { return clipboard.Unsupported }

// Bridge copies text through a Backend. Failures are logged and never
// interrupt the caller.
type Bridge struct {
	backend   Backend
	available bool
	logger    *slog.Logger
}

// New probes the system clipboard once.
func New(logger *slog.Logger) *Bridge {
	return NewWithBackend(systemBackend{}, logger)
}

// NewWithBackend probes backend once and records whether it can be used.
func NewWithBackend(backend Backend, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{backend: backend, logger: logger}
	b.available = backend != nil && !backend.Unsupported()
	if !b.available {
		logger.Warn("Failed to initialize clipboard support", "error", ErrClipboardUnavailable)
	}
	return b
}

// Available reports whether the clipboard was usable at startup.
func (b *Bridge) Available() bool {
	return b.available
}

// Copy places text on the clipboard. The returned error is informational; it
// has already been logged.
func (b *Bridge) Copy(text string) error {
	if !b.available {
		b.logger.Warn("Failed to initialize clipboard support", "error", ErrClipboardUnavailable)
		return ErrClipboardUnavailable
	}
	if err := b.backend.WriteAll(text); err != nil {
		err = fmt.Errorf("%w: %w", ErrClipboardWrite, err)
		b.logger.Error("Failed to copy to clipboard", "error", err)
		return err
	}
	b.logger.Debug("copied to clipboard", "bytes", len(text))
	return nil
}
