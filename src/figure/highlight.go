package figure

import (
	"fmt"

	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
)

// HighlightRequest parameterizes BuildHighlight.
type HighlightRequest struct {
	// Period controls the label granularity of the min/max annotations.
	Period Period
	// YAxis fixes the value axis; a non-fixed axis is computed from the data.
	YAxis  AxisSpec
	Width  int
	Height int
	Text   TextSpec
	Grid   *Grid
	// Sizes in points; zero falls back to package defaults.
	LineWidth      float64
	MarkerRadius   float64
	AnnotationSize float64
	TickLabelSize  float64
}

// Highlight defaults.
const (
	DefaultHighlightWidth  = 1200
	DefaultHighlightHeight = 800
	defaultHighlightLine   = 2.5
	defaultMarkerRadius    = 5
	defaultAnnotationSize  = 12
	defaultHighlightTicks  = 12.5
	annotationGap          = 10 // px between marker and text
	rightQuarter           = 0.75
)

// DefaultHighlightGrid is a single cell under the title block.
func DefaultHighlightGrid() Grid {
	return Grid{Rows: 1, Cols: 1, Left: 0.07, Right: 0.95, Bottom: 0.1, Top: 0.85}
}

// BuildHighlight draws one series as a line and marks its global minimum and maximum with a
// dot and a "<period>: <value>" annotation. The maximum label sits above its marker and the
// minimum label below. Labels of markers in the right quarter of the time range are right
// aligned so they stay inside the panel.
func BuildHighlight(s table.Series, req HighlightRequest, st *style.Style) (*Figure, error) {
	lo, hi, err := s.MinMax()
	if err != nil {
		return nil, err
	}
	xMin, xMax := s.Times[0], s.Times[s.Len()-1]
	for _, t := range s.Times {
		if t.Before(xMin) {
			xMin = t
		}
		if t.After(xMax) {
			xMax = t
		}
	}
	if !xMax.After(xMin) {
		xMax = xMin.AddDate(0, 0, 1)
	}

	var yMin, yMax float64
	var yTicks []Tick
	if req.YAxis.Fixed() {
		yMin, yMax = req.YAxis.Min, req.YAxis.Max
		yTicks = FixedTicks(yMin, yMax, req.YAxis.Step, req.YAxis.Format)
	} else {
		a, b := NiceBounds(s.Values[lo], s.Values[hi])
		yMin, yMax, yTicks = NiceTicks(a, b, 6, false, req.YAxis.Format)
	}

	theme := st.Theme
	p := Panel{
		Cell:   0,
		XMin:   xMin,
		XMax:   xMax,
		XTicks: TimeTicks(xMin, xMax),
		YMin:   yMin,
		YMax:   yMax,
		YTicks: yTicks,
		Axes: Axes{
			LeftSpine:   theme.LeftSpine,
			BottomSpine: theme.BottomSpine,
			TickMarks:   theme.TickMarks,
			GridColor:   style.WithOpacity(st.Palette.Grid, theme.GridAlpha),
			GridWidth:   theme.GridWidth,
			LabelColor:  st.Palette.Muted,
			LabelSize:   orDefaultF(req.TickLabelSize, defaultHighlightTicks),
		},
		Lines: []Line{{
			Name:   s.Name,
			Times:  append(s.Times[:0:0], s.Times...),
			Values: append([]float64(nil), s.Values...),
			Color:  st.Palette.Line,
			Width:  orDefaultF(req.LineWidth, defaultHighlightLine),
		}},
	}

	radius := orDefaultF(req.MarkerRadius, defaultMarkerRadius)
	size := orDefaultF(req.AnnotationSize, defaultAnnotationSize)
	span := xMax.Sub(xMin).Seconds()
	mark := func(i int, above bool) {
		at := Point{Time: s.Times[i], Value: s.Values[i]}
		a := Annotation{
			At:      at,
			Text:    fmt.Sprintf("%s: %.1f", PeriodLabel(at.Time, req.Period), at.Value),
			OffsetX: annotationGap / 2,
			HAlign:  AlignLeft,
			Font:    style.FontBody,
			Size:    size,
			Color:   st.Palette.Text,
		}
		if above {
			a.OffsetY, a.VAlign = -annotationGap, AlignBottom
		} else {
			a.OffsetY, a.VAlign = annotationGap, AlignTop
		}
		if at.Time.Sub(xMin).Seconds()/span > rightQuarter {
			a.OffsetX, a.HAlign = -annotationGap/2, AlignRight
		}
		p.Markers = append(p.Markers, Marker{At: at, Color: st.Palette.Marker, Radius: radius})
		p.Annotations = append(p.Annotations, a)
	}
	mark(hi, true)
	if lo != hi {
		mark(lo, false)
	}

	fig := &Figure{
		Width:      orDefault(req.Width, DefaultHighlightWidth),
		Height:     orDefault(req.Height, DefaultHighlightHeight),
		DPI:        st.DPI,
		Background: st.Palette.Background,
		Grid:       DefaultHighlightGrid(),
		Panels:     []Panel{p},
	}
	if req.Grid != nil {
		fig.Grid = *req.Grid
		fig.Grid.Rows, fig.Grid.Cols = 1, 1
	}
	fig.Texts = headerTexts(req.Text, st, textPlacement{
		titleY: 0.95, titleV: AlignBaseline, subtitleY: 0.90, subtitleV: AlignBaseline,
		captionX: 0.95, captionY: 0.02, titleSize: 30, subtitleSize: 17.5, captionSize: 12.5,
	})
	return fig, nil
}
