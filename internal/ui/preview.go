package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// halfBlock paints the top half of a cell in the foreground colour and the
// bottom half in the background colour, giving two pixels per cell.
const halfBlock = "▀"

var (
	darkBackground  = color.RGBA{0x1a, 0x1b, 0x26, 0xff}
	lightBackground = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// fitScale returns the factor that fits a w x h pixel image into cols x rows
// cells. Like the window version it keeps a tenth of the width free and never
// enlarges.
func fitScale(w, h, cols, rows int) float64 {
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return 0
	}
	scale := math.Min(float64(cols)/float64(w)*0.9, 1)
	return math.Min(scale, float64(rows*2)/float64(h))
}

// renderPreview draws img over bg as rows of half-block cells, at most cols
// wide and rows tall.
func renderPreview(img image.Image, cols, rows int, bg color.RGBA) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	scale := fitScale(b.Dx(), b.Dy(), cols, rows)
	if scale <= 0 {
		return ""
	}
	w := max(int(float64(b.Dx())*scale), 1)
	h := max(int(float64(b.Dy())*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < w; x++ {
			top := dst.RGBAAt(x, y)
			bottom := bg
			if y+1 < h {
				bottom = dst.RGBAAt(x, y+1)
			}
			cell := lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom))
			sb.WriteString(cell.Render(halfBlock))
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func previewBackground(dark bool) color.RGBA {
	if dark {
		return darkBackground
	}
	return lightBackground
}
