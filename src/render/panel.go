package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/style"
)

// renderPanel rasterizes one panel to a w×h image.
func renderPanel(p figure.Panel, w, h int, fig *figure.Figure, st *style.Style) (image.Image, error) {
	ch := panelChart(p, w, h, fig, st)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("panel %d (%s): %w", p.Cell, p.Title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("panel %d decode: %w", p.Cell, err)
	}
	return img, nil
}

// panelChart maps a panel onto a go-chart Chart. Values are plotted against the secondary
// y-axis because go-chart draws that one on the left.
func panelChart(p figure.Panel, w, h int, fig *figure.Figure, st *style.Style) chart.Chart {
	body := st.Font(style.FontBody)
	labels := chart.Style{
		Font:      body,
		FontSize:  p.Axes.LabelSize,
		FontColor: p.Axes.LabelColor,
	}
	// go-chart strokes the axis line and its tick marks with one style, so both are drawn
	// by axesSeries instead and the axis stroke stays transparent.
	axis := labels
	axis.StrokeWidth = 1
	axis.StrokeColor = drawing.ColorTransparent
	gridStyle := chart.Style{StrokeColor: p.Axes.GridColor, StrokeWidth: figure.PtToPx(p.Axes.GridWidth, fig.DPI)}

	xTicks, xGrid := xAxisTicks(p, gridStyle)
	yTicks, yGrid := yAxisTicks(p, gridStyle)

	top := 8
	if p.Title != "" {
		top += int(figure.PtToPx(p.TitleSize, fig.DPI)*1.6 + 0.5)
	}

	ch := chart.Chart{
		Width:  w,
		Height: h,
		DPI:    fig.DPI,
		Font:   body,
		Background: chart.Style{
			FillColor:   fig.Background,
			StrokeColor: drawing.ColorTransparent,
			Padding:     chart.Box{Top: top, Left: 4, Right: 14, Bottom: 4, IsSet: true},
		},
		Canvas: chart.Style{FillColor: fig.Background, StrokeColor: drawing.ColorTransparent},
		XAxis: chart.XAxis{
			Style:     axis,
			Range:     &chart.ContinuousRange{Min: chart.TimeToFloat64(p.XMin), Max: chart.TimeToFloat64(p.XMax)},
			Ticks:     xTicks,
			GridLines: xGrid,
		},
		// The primary axis only carries the tick values go-chart reads the shared range from.
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: p.YMin, Max: p.YMax},
			Ticks: yTicks,
		},
		YAxisSecondary: chart.YAxis{
			Style:     axis,
			Range:     &chart.ContinuousRange{Min: p.YMin, Max: p.YMax},
			Ticks:     yTicks,
			GridLines: yGrid,
		},
	}
	if p.Title != "" {
		ch.Title = p.Title
		ch.TitleStyle = chart.Style{
			Font:      st.Font(p.TitleFont),
			FontSize:  p.TitleSize,
			FontColor: p.TitleColor,
			Padding:   chart.Box{Top: 6, IsSet: true},
		}
	}

	if len(p.Bands) > 0 {
		ch.Series = append(ch.Series, bandSeries{bands: p.Bands})
	}
	for _, l := range p.Lines {
		ch.Series = append(ch.Series, chart.TimeSeries{
			Name:    l.Name,
			YAxis:   chart.YAxisSecondary,
			XValues: l.Times,
			YValues: l.Values,
			Style: chart.Style{
				StrokeColor: l.Color,
				StrokeWidth: figure.PtToPx(l.Width, fig.DPI),
			},
		})
	}
	if len(p.Markers) > 0 {
		ch.Series = append(ch.Series, markerSeries{markers: p.Markers, dpi: fig.DPI})
	}
	if len(p.Annotations) > 0 {
		ch.Series = append(ch.Series, annotationSeries{annotations: p.Annotations, st: st})
	}
	if p.Axes.LeftSpine || p.Axes.BottomSpine || p.Axes.TickMarks {
		ch.Series = append(ch.Series, axesSeries{panel: p})
	}
	if len(ch.Series) == 0 {
		// go-chart refuses to render without a visible series
		ch.Series = append(ch.Series, bandSeries{})
	}
	return ch
}

// xAxisTicks adds unlabeled ticks at both range ends so go-chart keeps the shared x-range,
// and draws vertical grid lines only at the labeled ticks.
func xAxisTicks(p figure.Panel, grid chart.Style) ([]chart.Tick, []chart.GridLine) {
	lo, hi := chart.TimeToFloat64(p.XMin), chart.TimeToFloat64(p.XMax)
	ticks := []chart.Tick{{Value: lo}}
	var lines []chart.GridLine
	for _, t := range p.XTicks {
		v := chart.TimeToFloat64(t.Time)
		if v < lo || v > hi {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: t.Label})
		lines = append(lines, chart.GridLine{Value: v, Style: grid})
	}
	ticks = append(ticks, chart.Tick{Value: hi})
	if len(lines) == 0 {
		// keep the grid visible on very short ranges
		lines = append(lines, chart.GridLine{Value: hi, Style: grid})
	}
	return ticks, lines
}

func yAxisTicks(p figure.Panel, grid chart.Style) ([]chart.Tick, []chart.GridLine) {
	var ticks []chart.Tick
	var lines []chart.GridLine
	if len(p.YTicks) == 0 || p.YTicks[0].Value > p.YMin {
		ticks = append(ticks, chart.Tick{Value: p.YMin})
	}
	for _, t := range p.YTicks {
		ticks = append(ticks, chart.Tick{Value: t.Value, Label: t.Label})
		lines = append(lines, chart.GridLine{Value: t.Value, Style: grid})
	}
	if len(p.YTicks) == 0 || p.YTicks[len(p.YTicks)-1].Value < p.YMax {
		ticks = append(ticks, chart.Tick{Value: p.YMax})
	}
	return ticks, lines
}

// toPixel maps a data point into canvas pixels.
func toPixel(canvas chart.Box, xr, yr chart.Range, t time.Time, v float64) (int, int) {
	return canvas.Left + xr.Translate(chart.TimeToFloat64(t)), canvas.Bottom - yr.Translate(v)
}

// axesSeries draws the spines and outward tick marks the panel's Axes ask for.
type axesSeries struct {
	panel figure.Panel
}

func (s axesSeries) GetName() string { return "axes" }
func (s axesSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (s axesSeries) GetStyle() chart.Style { return chart.Style{} }
func (s axesSeries) Validate() error { return nil }

func (s axesSeries) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	ax := s.panel.Axes
	r.SetStrokeColor(ax.LabelColor)
	r.SetStrokeWidth(1)
	line := func(x0, y0, x1, y1 int) {
		r.MoveTo(x0, y0)
		r.LineTo(x1, y1)
		r.Stroke()
	}
	if ax.BottomSpine {
		line(canvas.Left, canvas.Bottom, canvas.Right, canvas.Bottom)
	}
	if ax.LeftSpine {
		line(canvas.Left, canvas.Bottom, canvas.Left, canvas.Top)
	}
	if !ax.TickMarks {
		return
	}
	for _, t := range s.panel.XTicks {
		if t.Time.Before(s.panel.XMin) || t.Time.After(s.panel.XMax) {
			continue
		}
		x := canvas.Left + xr.Translate(chart.TimeToFloat64(t.Time))
		line(x, canvas.Bottom, x, canvas.Bottom+chart.DefaultVerticalTickHeight)
	}
	for _, t := range s.panel.YTicks {
		if t.Value < s.panel.YMin || t.Value > s.panel.YMax {
			continue
		}
		y := canvas.Bottom - yr.Translate(t.Value)
		line(canvas.Left, y, canvas.Left-chart.DefaultHorizontalTickWidth, y)
	}
}

// bandSeries fills each dominance polygon.
type bandSeries struct {
	bands []figure.Band
}

func (s bandSeries) GetName() string { return "bands" }
func (s bandSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (s bandSeries) GetStyle() chart.Style { return chart.Style{} }
func (s bandSeries) Validate() error { return nil }

func (s bandSeries) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, b := range s.bands {
		if len(b.Polygon) < 3 {
			continue
		}
		r.SetFillColor(b.Color)
		r.SetStrokeColor(drawing.ColorTransparent)
		r.SetStrokeWidth(0)
		for i, pt := range b.Polygon {
			x, y := toPixel(canvas, xr, yr, pt.Time, pt.Value)
			if i == 0 {
				r.MoveTo(x, y)
			} else {
				r.LineTo(x, y)
			}
		}
		r.Close()
		r.Fill()
	}
}

// markerSeries draws filled dots.
type markerSeries struct {
	markers []figure.Marker
	dpi     float64
}

func (s markerSeries) GetName() string { return "markers" }
func (s markerSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (s markerSeries) GetStyle() chart.Style { return chart.Style{} }
func (s markerSeries) Validate() error { return nil }

func (s markerSeries) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, m := range s.markers {
		x, y := toPixel(canvas, xr, yr, m.At.Time, m.At.Value)
		r.SetFillColor(m.Color)
		r.SetStrokeColor(m.Color)
		r.SetStrokeWidth(1)
		r.Circle(figure.PtToPx(m.Radius, s.dpi), x, y)
		r.FillStroke()
	}
}

// annotationSeries draws text next to data points.
type annotationSeries struct {
	annotations []figure.Annotation
	st          *style.Style
}

func (s annotationSeries) GetName() string { return "annotations" }
func (s annotationSeries) GetYAxis() chart.YAxisType { return chart.YAxisSecondary }
func (s annotationSeries) GetStyle() chart.Style { return chart.Style{} }
func (s annotationSeries) Validate() error { return nil }

func (s annotationSeries) Render(r chart.Renderer, canvas chart.Box, xr, yr chart.Range, _ chart.Style) {
	for _, a := range s.annotations {
		x, y := toPixel(canvas, xr, yr, a.At.Time, a.At.Value)
		x += int(a.OffsetX)
		y += int(a.OffsetY)
		r.SetFont(s.st.Font(a.Font))
		r.SetFontSize(a.Size)
		r.SetFontColor(a.Color)
		tb := r.MeasureText(a.Text)
		switch a.HAlign {
		case figure.AlignRight:
			x -= tb.Width()
		case figure.AlignCenter:
			x -= tb.Width() / 2
		}
		// y is the baseline passed to Text
		switch a.VAlign {
		case figure.AlignTop:
			y += tb.Height()
		case figure.AlignMiddle:
			y += tb.Height() / 2
		}
		r.Text(a.Text, x, y)
	}
}
