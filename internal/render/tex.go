package render

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"cogentcore.org/core/paint/ppath"
	"cogentcore.org/core/text/tex"
	startex "star-tex.org/x/tex"
)

// TeXFontSize is the size in pixels of a 10pt glyph in the natural (unmagnified)
// formula image.
const TeXFontSize = 16

// texMacros fills in LaTeX commands that plain TeX lacks but pandoc emits.
// Environments are mapped onto the plain TeX alignment macros; they do not
// nest inside each other.
var texMacros = strings.Join([]string{
	`\def\frac#1#2{{{#1}\over{#2}}}`,
	`\def\dfrac#1#2{{\displaystyle{#1\over#2}}}`,
	`\def\tfrac#1#2{{\textstyle{#1\over#2}}}`,
	`\def\binom#1#2{{#1\choose#2}}`,
	`\def\text#1{\hbox{\rm #1}}`,
	`\def\mathrm#1{{\rm #1}}`,
	`\def\mathbf#1{{\bf #1}}`,
	`\def\mathit#1{{\it #1}}`,
	// no blackboard bold face ships with the engine
	`\def\mathbb#1{{\bf #1}}`,
	`\def\operatorname#1{\mathop{\rm #1}\nolimits}`,
	`\def\\{\cr}`,
	`\def\begin#1#2\end#3{\expandafter\ifx\csname env:#1\endcsname\relax` +
		`\errmessage{Unknown environment #1}\fi\csname env:#1\endcsname{#2}}`,
	`\expandafter\def\csname env:matrix\endcsname#1{\matrix{#1}}`,
	`\expandafter\def\csname env:pmatrix\endcsname#1{\left(\matrix{#1}\right)}`,
	`\expandafter\def\csname env:bmatrix\endcsname#1{\left[\matrix{#1}\right]}`,
	`\expandafter\def\csname env:Bmatrix\endcsname#1{\left\{\matrix{#1}\right\}}`,
	`\expandafter\def\csname env:vmatrix\endcsname#1{\left|\matrix{#1}\right|}`,
	`\expandafter\def\csname env:Vmatrix\endcsname#1{\left\Vert\matrix{#1}\right\Vert}`,
	`\expandafter\def\csname env:cases\endcsname#1{\left\{\,\vcenter{\normalbaselines\mathsurround=0pt` +
		`\ialign{$##\hfil$&\quad$##\hfil$\crcr#1\crcr}}\right.}`,
	`\expandafter\def\csname env:aligned\endcsname#1{\eqalign{#1}}`,
}, "")

// SVGConverter turns a LaTeX math string into an SVG document.
type SVGConverter interface {
	ConvertToSVG(latex string) (string, error)
}

// TeXSVG typesets formulas with the plain TeX math engine and outlines the
// glyphs as a single black path.
type TeXSVG struct {
	FontSize float32
	// Logger receives the TeX transcript of formulas that fail to typeset.
	Logger *slog.Logger
}

var (
	checkMu     sync.Mutex
	checkEngine *startex.Engine
)

// ConvertToSVG implements SVGConverter.
func (t TeXSVG) ConvertToSVG(latex string) (svg string, err error) {
	size := t.FontSize
	if size <= 0 {
		size = TeXFontSize
	}
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Kind: ErrFormulaSyntax, Stage: "typeset", Err: fmt.Errorf("%v", r)}
		}
	}()

	formula := texMacros + `\displaystyle ` + latex
	// tex.TeXMath prints the transcript of a failed run to stdout, so it only
	// sees formulas that already typeset here.
	if err := t.check(formula); err != nil {
		return "", &StageError{Kind: ErrFormulaSyntax, Stage: "typeset", Err: err}
	}
	p, err := tex.TeXMath(formula, size)
	if err != nil {
		return "", &StageError{Kind: ErrFormulaSyntax, Stage: "typeset", Err: err}
	}
	if p == nil {
		return "", &StageError{Kind: ErrFormulaSyntax, Stage: "typeset"}
	}
	return svgDocument(*p), nil
}

// check runs formula through a TeX engine whose terminal output is captured.
func (t TeXSVG) check(formula string) error {
	checkMu.Lock()
	defer checkMu.Unlock()
	if checkEngine == nil {
		checkEngine = startex.New()
	}

	var transcript bytes.Buffer
	checkEngine.Stdout = &transcript
	checkEngine.Stderr = &transcript
	doc := strings.NewReader(`\nopagenumbers` + "\n $" + formula + "$\n\\bye\n")
	if err := checkEngine.Process(io.Discard, doc); err != nil {
		t.logger().Debug("tex transcript", "output", transcript.String())
		return texError(transcript.String())
	}
	return nil
}

func (t TeXSVG) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// texError returns the first "! ..." line of a TeX transcript.
func texError(transcript string) error {
	sc := bufio.NewScanner(strings.NewReader(transcript))
	for sc.Scan() {
		if msg, ok := strings.CutPrefix(sc.Text(), "! "); ok {
			return errors.New(msg)
		}
	}
	return errors.New("tex run failed")
}

// svgDocument places the path at the origin and wraps it in an SVG document
// whose natural size is the path's bounding box.
func svgDocument(p ppath.Path) string {
	bounds := p.FastBounds()
	size := bounds.Size()
	p = p.Translate(-bounds.Min.X, -bounds.Min.Y)

	w, h := formatFloat(size.X), formatFloat(size.Y)
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1"`)
	fmt.Fprintf(&b, ` width="%s" height="%s" viewBox="0 0 %s %s">`, w, h, w, h)
	fmt.Fprintf(&b, `<path fill="#000000" d="%s"/>`, p.ToSVG())
	b.WriteString(`</svg>`)
	return b.String()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 3, 32)
}
