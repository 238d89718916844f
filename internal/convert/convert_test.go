package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a real test. It stands in for the external
// converter when re-executed by helperConverter.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	in, _ := io.ReadAll(os.Stdin)
	payload := string(in)

	switch os.Getenv("HELPER_MODE") {
	case "display":
		if !strings.HasPrefix(payload, "$\n") || !strings.HasSuffix(payload, "\n$") {
			fmt.Fprint(os.Stderr, "stdin: payload not wrapped in math delimiters")
			os.Exit(2)
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(payload, "$\n"), "\n$")
		fmt.Fprintf(os.Stdout, "\\[%s\\]\n", inner)
	case "inline":
		fmt.Fprint(os.Stdout, "  x^{2}  \n")
	case "fail":
		fmt.Fprint(os.Stderr, "Error at \"stdin\" (line 2, column 4):\nunexpected end of input\n")
		os.Exit(64)
	case "nocolon":
		fmt.Fprint(os.Stderr, "  something broke  \n")
		os.Exit(1)
	case "sleep":
		time.Sleep(10 * time.Second)
	}
	os.Exit(0)
}

func helperConverter(mode string) *Converter {
	return &Converter{
		Command: os.Args[0],
		Args:    []string{"-test.run=^TestHelperProcess$", "--"},
		Env:     []string{"GO_WANT_HELPER_PROCESS=1", "HELPER_MODE=" + mode},
	}
}

func TestPayload(t *testing.T) {
	assert.Equal(t, "$\nx^2\n$", Payload("x^2"))
	assert.Equal(t, "$\n\n$", Payload(""))
}

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"display brackets", "\\[x^{2}\\]\n", "x^{2}"},
		{"brackets with inner space", "\\[ \\frac{a}{b} \\]", "\\frac{a}{b}"},
		{"no brackets", "  x + y\n", "x + y"},
		{"only leading bracket", "\\[x", "x"},
		{"multiline", "\\[\na \\\\\nb\n\\]\n", "a \\\\\nb"},
		{"empty", "", ""},
		{"empty display", "\\[\\]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanOutput(tt.in)
			assert.Equal(t, tt.want, got)
			assert.False(t, strings.HasPrefix(got, `\[`) && strings.HasSuffix(got, `\]`))
		})
	}
}

func TestCleanError(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"location prefix", "Error at \"stdin\" (line 2, column 4):\nunexpected end of input\n", "unexpected end of input"},
		{"only first colon", "loc: bad: worse", "bad: worse"},
		{"no colon", "  plain failure \n", "plain failure"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanError(tt.in))
		})
	}
}

func TestConvertSuccess(t *testing.T) {
	got, err := helperConverter("display").Convert(context.Background(), "x^2")
	require.NoError(t, err)
	assert.Equal(t, "x^2", got)

	got, err = helperConverter("inline").Convert(context.Background(), "x^2")
	require.NoError(t, err)
	assert.Equal(t, "x^{2}", got)
}

func TestConvertExitError(t *testing.T) {
	_, err := helperConverter("fail").Convert(context.Background(), "x^")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConverterExit))
	assert.Equal(t, "unexpected end of input", err.Error())

	_, err = helperConverter("nocolon").Convert(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConverterExit))
	assert.Equal(t, "something broke", err.Error())
}

func TestConvertUnavailable(t *testing.T) {
	c := &Converter{Command: "/nonexistent/dir/pandoc", Args: DefaultArgs}
	assert.False(t, c.Available())

	_, err := c.Convert(context.Background(), "x^2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConverterUnavailable))
	assert.Equal(t, "Failed to execute pandoc. Do you have it installed?", err.Error())

	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	assert.NotNil(t, convErr.Err)
}

func TestConvertTimeout(t *testing.T) {
	c := helperConverter("sleep")
	c.Timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := c.Convert(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConverterExit))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewDefaults(t *testing.T) {
	c := New(nil)
	assert.Equal(t, "pandoc", c.Command)
	assert.Equal(t, []string{"-f", "typst", "-t", "latex", "--"}, c.Args)
	assert.Zero(t, c.Timeout)
}
