// Package figure turns data, layout and style into a drawing-instruction list.
//
// Builders in this package are pure: they read a table.Table or table.Series and a
// *style.Style and return a *Figure describing what to draw. They never rasterize and never
// touch shared state, so two calls with the same inputs return equal figures. Package render
// turns a Figure into pixels.
//
// Coordinates: figure-level positions (texts, legends, the grid area) are fractions of the
// figure with the origin at the bottom-left corner. Data inside a panel is in data units
// (time on x, value on y). Annotation offsets are pixels with y growing downwards.
package figure

import (
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/DataVizDesign/src/style"
)

// Figure is the complete instruction list for one image.
type Figure struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	DPI        float64       `yaml:"dpi"`
	Background drawing.Color `yaml:"background"`
	Grid       Grid          `yaml:"grid"`
	Panels     []Panel       `yaml:"panels"`
	// Removed lists grid cells left out of the output because there was no panel for them.
	Removed []int    `yaml:"removed,omitempty"`
	Legends []Legend `yaml:"legends,omitempty"`
	Texts   []Text   `yaml:"texts,omitempty"`
}

// Grid places panels in rows×cols cells inside [Left,Right]×[Bottom,Top].
type Grid struct {
	Rows   int     `yaml:"rows"`
	Cols   int     `yaml:"cols"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
	// WSpace and HSpace are the gaps between cells as a fraction of the average cell size.
	WSpace float64 `yaml:"wspace"`
	HSpace float64 `yaml:"hspace"`
}

// Panel is one facet.
type Panel struct {
	Cell       int            `yaml:"cell"`
	Title      string         `yaml:"title,omitempty"`
	TitleFont  style.FontRole `yaml:"title_font,omitempty"`
	TitleSize  float64        `yaml:"title_size,omitempty"`
	TitleColor drawing.Color  `yaml:"title_color"`

	XMin   time.Time  `yaml:"x_min"`
	XMax   time.Time  `yaml:"x_max"`
	XTicks []TimeTick `yaml:"x_ticks,omitempty"`
	YMin   float64    `yaml:"y_min"`
	YMax   float64    `yaml:"y_max"`
	YTicks []Tick     `yaml:"y_ticks,omitempty"`
	Axes   Axes       `yaml:"axes"`

	// Draw order: bands, lines, markers, annotations.
	Bands       []Band       `yaml:"bands,omitempty"`
	Lines       []Line       `yaml:"lines,omitempty"`
	Markers     []Marker     `yaml:"markers,omitempty"`
	Annotations []Annotation `yaml:"annotations,omitempty"`
}

// Axes is the decoration of a panel.
type Axes struct {
	LeftSpine   bool          `yaml:"left_spine"`
	BottomSpine bool          `yaml:"bottom_spine"`
	TickMarks   bool          `yaml:"tick_marks"`
	GridColor   drawing.Color `yaml:"grid_color"`
	GridWidth   float64       `yaml:"grid_width"`
	LabelColor  drawing.Color `yaml:"label_color"`
	LabelSize   float64       `yaml:"label_size"`
}

// Point is one data coordinate.
type Point struct {
	Time  time.Time `yaml:"t"`
	Value float64   `yaml:"v"`
}

// Line is a polyline series.
type Line struct {
	Name   string        `yaml:"name"`
	Times  []time.Time   `yaml:"times"`
	Values []float64     `yaml:"values"`
	Color  drawing.Color `yaml:"color"`
	Width  float64       `yaml:"width"`
}

// Band is one dominance region between two lines.
type Band struct {
	Side    Side          `yaml:"side"`
	Start   int           `yaml:"start"`
	End     int           `yaml:"end"`
	Color   drawing.Color `yaml:"color"`
	Polygon []Point       `yaml:"polygon"`
}

// Marker is a filled dot.
type Marker struct {
	At     Point         `yaml:"at"`
	Color  drawing.Color `yaml:"color"`
	Radius float64       `yaml:"radius"`
}

// HAlign is horizontal text alignment relative to the anchor.
type HAlign string

// VAlign is vertical text alignment relative to the anchor.
type VAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"

	AlignTop      VAlign = "top"
	AlignMiddle   VAlign = "middle"
	AlignBaseline VAlign = "baseline"
	AlignBottom   VAlign = "bottom"
)

// Annotation is text anchored to a data point and shifted by a pixel offset.
type Annotation struct {
	At      Point          `yaml:"at"`
	Text    string         `yaml:"text"`
	OffsetX float64        `yaml:"offset_x"`
	OffsetY float64        `yaml:"offset_y"`
	HAlign  HAlign         `yaml:"halign"`
	VAlign  VAlign         `yaml:"valign"`
	Font    style.FontRole `yaml:"font"`
	Size    float64        `yaml:"size"`
	Color   drawing.Color  `yaml:"color"`
}

// EntryKind is the handle drawn next to a legend label.
type EntryKind string

const (
	EntryLine  EntryKind = "line"
	EntryPatch EntryKind = "patch"
)

// LegendEntry is one handle + label.
type LegendEntry struct {
	Label string        `yaml:"label"`
	Kind  EntryKind     `yaml:"kind"`
	Color drawing.Color `yaml:"color"`
	Width float64       `yaml:"width,omitempty"`
}

// Legend is a frameless row-major block of entries whose bottom-left corner sits at (X, Y).
type Legend struct {
	X       float64        `yaml:"x"`
	Y       float64        `yaml:"y"`
	Columns int            `yaml:"columns"`
	Entries []LegendEntry  `yaml:"entries"`
	Font    style.FontRole `yaml:"font"`
	Size    float64        `yaml:"size"`
	Color   drawing.Color  `yaml:"color"`
	// Handle and spacing lengths are multiples of the font size.
	HandleLength  float64 `yaml:"handle_length"`
	HandleHeight  float64 `yaml:"handle_height"`
	ColumnSpacing float64 `yaml:"column_spacing"`
}

// Text is a figure-level text block; Body may hold several lines.
type Text struct {
	Body   string         `yaml:"body"`
	X      float64        `yaml:"x"`
	Y      float64        `yaml:"y"`
	Font   style.FontRole `yaml:"font"`
	Size   float64        `yaml:"size"`
	Color  drawing.Color  `yaml:"color"`
	HAlign HAlign         `yaml:"halign"`
	VAlign VAlign         `yaml:"valign"`
}

// Panel returns the panel drawn in cell, if any.
func (f *Figure) Panel(cell int) (Panel, bool) {
	for _, p := range f.Panels {
		if p.Cell == cell {
			return p, true
		}
	}
	return Panel{}, false
}

// Summary is a one-line description for logs.
func (f *Figure) Summary() string {
	return fmt.Sprintf("%dx%d px, %dx%d grid, %d panels, %d removed cells, %d legends, %d texts",
		f.Width, f.Height, f.Grid.Rows, f.Grid.Cols, len(f.Panels), len(f.Removed), len(f.Legends), len(f.Texts))
}

// PtToPx converts a point size to pixels at dpi.
func PtToPx(pt, dpi float64) float64 { return pt * dpi / 72 }
