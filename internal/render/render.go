// Package render turns LaTeX math into a display bitmap.
//
// Rendering runs in three stages: the formula is typeset into an SVG document,
// the document is parsed into a vector scene, and the scene is rasterized at a
// fixed magnification. In dark mode the RGB channels are inverted afterwards so
// black glyphs show up white.
package render

import (
	"image"
	"log/slog"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

const (
	// Magnification is applied to the natural size of the scene to get the
	// pixel size of the bitmap.
	Magnification = 5.0
	// Margin shrinks the drawing inside the bitmap.
	Margin = 0.9
	// MaxDimension caps either side of the bitmap.
	MaxDimension = 16384
)

// Rasterizer renders LaTeX math into an RGBA bitmap.
type Rasterizer interface {
	Render(latex string, dark bool) (*image.NRGBA, error)
}

// Pipeline is the default Rasterizer. Every call re-renders from scratch.
type Pipeline struct {
	SVG    SVGConverter
	Logger *slog.Logger
}

// New returns a Pipeline typesetting with TeXSVG.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{SVG: TeXSVG{Logger: logger}, Logger: logger}
}

// Render implements Rasterizer.
func (p *Pipeline) Render(latex string, dark bool) (*image.NRGBA, error) {
	svg, err := p.SVG.ConvertToSVG(latex)
	if err != nil {
		return nil, asStage(err, ErrFormulaSyntax, "typeset")
	}
	icon, err := ParseScene(svg)
	if err != nil {
		return nil, err
	}
	rgba, err := Rasterize(icon)
	if err != nil {
		return nil, err
	}
	img := toNRGBA(rgba)
	if dark {
		Invert(img)
	}
	p.logger().Debug("formula rendered",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy(),
		"dark", dark)
	return img, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// ParseScene parses SVG markup into a vector scene.
func ParseScene(svg string) (*oksvg.SvgIcon, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		return nil, &StageError{Kind: ErrVectorParse, Stage: "parse", Err: err}
	}
	return icon, nil
}

// Rasterize draws the scene into a bitmap Magnification times its natural
// size, scaled by Margin and anchored at the top left corner.
func Rasterize(icon *oksvg.SvgIcon) (*image.RGBA, error) {
	fw := icon.ViewBox.W * Magnification
	fh := icon.ViewBox.H * Magnification
	if !(fw >= 1 && fh >= 1) || fw > MaxDimension || fh > MaxDimension {
		return nil, &StageError{Kind: ErrBitmapAllocation, Stage: "rasterize"}
	}
	w, h := int(fw), int(fh)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scale := Magnification * Margin
	icon.SetTarget(0, 0, icon.ViewBox.W*scale, icon.ViewBox.H*scale)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

// Invert replaces every pixel's RGB value v with 255-v. Alpha is untouched.
func Invert(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			row[i] = 255 - row[i]
			row[i+1] = 255 - row[i+1]
			row[i+2] = 255 - row[i+2]
		}
	}
}

func toNRGBA(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func asStage(err error, kind error, stage string) error {
	if _, ok := err.(*StageError); ok {
		return err
	}
	return &StageError{Kind: kind, Stage: stage, Err: err}
}
