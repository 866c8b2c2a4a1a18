package render

import (
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/style"
)

func newFace(st *style.Style, role style.FontRole, size float64) font.Face {
	return truetype.NewFace(st.Font(role), &truetype.Options{Size: size, DPI: st.DPI, Hinting: font.HintingNone})
}

// fracToPx converts figure fractions (origin bottom-left) to image pixels (origin top-left).
func fracToPx(fig *figure.Figure, x, y float64) (int, int) {
	return int(math.Round(x * float64(fig.Width))), int(math.Round((1 - y) * float64(fig.Height)))
}

// textRoom is the width in pixels a line anchored at x may use, keeping the anchor's margin on
// the far side.
func textRoom(width, x int, align figure.HAlign) int {
	switch align {
	case figure.AlignRight:
		return x - (width - x)
	case figure.AlignCenter:
		return 2 * min(x, width-x)
	}
	return width - 2*x
}

// fitSize returns t.Size, shrunk so the widest line of t is no wider than room.
func fitSize(st *style.Style, t figure.Text, room int) float64 {
	if room <= 0 {
		return t.Size
	}
	face := newFace(st, t.Font, t.Size)
	defer face.Close()
	widest := 0
	for _, line := range strings.Split(t.Body, "\n") {
		if w := font.MeasureString(face, line).Ceil(); w > widest {
			widest = w
		}
	}
	if widest <= room {
		return t.Size
	}
	return t.Size * float64(room) / float64(widest)
}

// drawText renders a figure-level text block, one line per "\n". Lines too wide for the figure
// are drawn smaller.
func drawText(dst *image.RGBA, fig *figure.Figure, t figure.Text, st *style.Style) {
	if strings.TrimSpace(t.Body) == "" {
		return
	}
	x, y := fracToPx(fig, t.X, t.Y)
	face := newFace(st, t.Font, fitSize(st, t, textRoom(fig.Width, x, t.HAlign)))
	defer face.Close()
	m := face.Metrics()
	ascent, descent, lineH := m.Ascent.Ceil(), m.Descent.Ceil(), m.Height.Ceil()
	lines := strings.Split(t.Body, "\n")
	blockH := (len(lines)-1)*lineH + ascent + descent

	// baseline of the first line
	var base int
	switch t.VAlign {
	case figure.AlignTop:
		base = y + ascent
	case figure.AlignMiddle:
		base = y - blockH/2 + ascent
	case figure.AlignBottom:
		base = y - blockH + ascent
	default: // baseline: last line sits on y
		base = y - (len(lines)-1)*lineH
	}

	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(t.Color), Face: face}
	for i, line := range lines {
		w := dr.MeasureString(line).Ceil()
		lx := x
		switch t.HAlign {
		case figure.AlignRight:
			lx = x - w
		case figure.AlignCenter:
			lx = x - w/2
		}
		dr.Dot = fixed.Point26_6{X: fixed.I(lx), Y: fixed.I(base + i*lineH)}
		dr.DrawString(line)
	}
}

// drawLegend renders a frameless legend whose bottom-left corner sits at (lg.X, lg.Y).
func drawLegend(dst *image.RGBA, fig *figure.Figure, lg figure.Legend, st *style.Style) {
	if len(lg.Entries) == 0 {
		return
	}
	face := newFace(st, lg.Font, lg.Size)
	defer face.Close()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	sizePx := figure.PtToPx(lg.Size, fig.DPI)

	cols := lg.Columns
	if cols < 1 {
		cols = 1
	}
	rows := (len(lg.Entries) + cols - 1) / cols
	handleW := int(math.Round(lg.HandleLength * sizePx))
	handleH := int(math.Round(lg.HandleHeight * sizePx))
	gap := int(math.Round(sizePx / 2))
	colGap := int(math.Round(lg.ColumnSpacing * sizePx))
	rowH := ascent + descent + gap/2
	if handleH > rowH {
		rowH = handleH
	}

	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(lg.Color), Face: face}
	colW := make([]int, cols)
	for i, e := range lg.Entries {
		if w := dr.MeasureString(e.Label).Ceil(); w > colW[i%cols] {
			colW[i%cols] = w
		}
	}

	x0, bottom := fracToPx(fig, lg.X, lg.Y)
	top := bottom - rows*rowH
	for i, e := range lg.Entries {
		r, c := i/cols, i%cols
		x := x0
		for k := 0; k < c; k++ {
			x += handleW + gap + colW[k] + colGap
		}
		cy := top + r*rowH + rowH/2

		switch e.Kind {
		case figure.EntryPatch:
			rect := image.Rect(x, cy-handleH/2, x+handleW, cy+handleH-handleH/2)
			draw.Draw(dst, rect, image.NewUniform(e.Color), image.Point{}, draw.Over)
		default:
			th := int(math.Max(1, math.Round(figure.PtToPx(e.Width, fig.DPI))))
			rect := image.Rect(x, cy-th/2, x+handleW, cy-th/2+th)
			draw.Draw(dst, rect, image.NewUniform(e.Color), image.Point{}, draw.Over)
		}

		dr.Dot = fixed.Point26_6{X: fixed.I(x + handleW + gap), Y: fixed.I(cy + (ascent-descent)/2)}
		dr.DrawString(e.Label)
	}
}
