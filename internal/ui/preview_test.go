package ui

import (
	"image"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		cols, rows int
		want       float64
	}{
		{"small image is not enlarged", 10, 4, 100, 10, 1},
		{"wide image keeps a margin", 200, 10, 100, 50, 0.45},
		{"tall image fits rows", 10, 100, 100, 10, 0.2},
		{"degenerate", 0, 10, 100, 10, 0},
		{"no room", 10, 10, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, fitScale(tt.w, tt.h, tt.cols, tt.rows), 1e-9)
		})
	}
}

func TestRenderPreview(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 4))
	out := renderPreview(img, 100, 10, darkBackground)

	lines := strings.Split(ansi.Strip(out), "\n")
	assert.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, strings.Repeat(halfBlock, 10), line)
	}
}

func TestRenderPreviewOddHeight(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	lines := strings.Split(ansi.Strip(renderPreview(img, 100, 10, lightBackground)), "\n")
	assert.Len(t, lines, 2)
}

func TestRenderPreviewEmpty(t *testing.T) {
	assert.Empty(t, renderPreview(nil, 80, 10, darkBackground))
	assert.Empty(t, renderPreview(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 0, 10, darkBackground))
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#1a1b26", string(hexColor(darkBackground)))
	assert.Equal(t, "#ffffff", string(hexColor(previewBackground(false))))
}
