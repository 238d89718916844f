package render

import (
	"bytes"
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns whatever f writes to os.Stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()
	f()
	require.NoError(t, w.Close())
	return <-done
}

func hasInk(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return true
		}
	}
	return false
}

func TestTeXRender(t *testing.T) {
	tests := []struct {
		name  string
		latex string
	}{
		{"power", `x^{2}`},
		{"fraction", `\frac{a}{b}`},
		{"sum", `\sum_{i = 1}^{n}i`},
		{"text", `x\text{ if } x > 0`},
		{"pmatrix", `\begin{pmatrix}
a & b \\
c & d
\end{pmatrix}`},
		{"bmatrix", `\begin{bmatrix} 1 & 0 \\ 0 & 1 \end{bmatrix}`},
		{"cases", `f(x) = \begin{cases}
x & x > 0 \\
- x & \text{otherwise}
\end{cases}`},
		{"aligned", `\begin{aligned}
a & = b \\
c & = d
\end{aligned}`},
	}

	p := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := p.Render(tt.latex, false)
			require.NoError(t, err)
			b := img.Bounds()
			assert.Greater(t, b.Dx(), 10)
			assert.Greater(t, b.Dy(), 10)
			assert.True(t, hasInk(img))
		})
	}
}

func TestTeXRenderMatrixIsTaller(t *testing.T) {
	p := New(nil)
	single, err := p.Render(`a`, false)
	require.NoError(t, err)
	matrix, err := p.Render(`\begin{pmatrix} a \\ b \end{pmatrix}`, false)
	require.NoError(t, err)
	assert.Greater(t, matrix.Bounds().Dy(), single.Bounds().Dy())
}

func TestTeXRenderInvalidIsQuiet(t *testing.T) {
	var logged bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&logged, &slog.HandlerOptions{Level: slog.LevelDebug})))

	for _, latex := range []string{`\nosuchmacro x`, `\begin{nosuchenv} x \end{nosuchenv}`} {
		var err error
		out := captureStdout(t, func() {
			_, err = p.Render(latex, true)
		})
		assert.Empty(t, out, latex)
		require.Error(t, err, latex)
		assert.True(t, errors.Is(err, ErrFormulaSyntax), latex)
	}
	assert.Contains(t, logged.String(), "tex transcript")
}

func TestTeXError(t *testing.T) {
	transcript := "This is TeX\n(output.tex\n! Undefined control sequence.\nl.3 \\nosuchmacro\n"
	assert.EqualError(t, texError(transcript), "Undefined control sequence.")
	assert.EqualError(t, texError("no errors here"), "tex run failed")
}
