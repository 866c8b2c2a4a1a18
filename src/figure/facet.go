package figure

import (
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
)

// SeriesSpec describes one compared series and the band drawn where it dominates.
type SeriesSpec struct {
	Column    string        `yaml:"column"`
	Label     string        `yaml:"label"`
	Color     drawing.Color `yaml:"color"`
	Width     float64       `yaml:"width"`
	FillColor drawing.Color `yaml:"fill_color"`
	FillLabel string        `yaml:"fill_label"`
}

// AxisSpec fixes a value axis. With Step <= 0 or Max <= Min the range is computed from data.
type AxisSpec struct {
	Min    float64    `yaml:"min"`
	Max    float64    `yaml:"max"`
	Step   float64    `yaml:"step"`
	Format TickFormat `yaml:"format"`
}

// Fixed reports whether the axis has an explicit range.
func (a AxisSpec) Fixed() bool { return a.Step > 0 && a.Max > a.Min }

// TextSpec holds the figure-level texts. Empty entries are not drawn; zero sizes fall back
// to the builder's defaults.
type TextSpec struct {
	Title        string  `yaml:"title"`
	Subtitle     string  `yaml:"subtitle"`
	Caption      string  `yaml:"caption"`
	TitleSize    float64 `yaml:"title_size"`
	SubtitleSize float64 `yaml:"subtitle_size"`
	CaptionSize  float64 `yaml:"caption_size"`
}

// FacetRequest parameterizes BuildFacets.
type FacetRequest struct {
	// Categories in placement order; cell i shows Categories[i].
	Categories []string
	Layout     Layout
	A, B       SeriesSpec
	// FillOpacity applies to both band colors. Zero means 0.3.
	FillOpacity float64
	YAxis       AxisSpec
	Width       int
	Height      int
	Text        TextSpec
	// Grid overrides the plot area; its Rows and Cols always come from Layout.
	Grid *Grid
	// LineLegendAt and FillLegendAt are bottom-left corners in figure fractions.
	LineLegendAt *[2]float64
	FillLegendAt *[2]float64
}

// Facet defaults.
const (
	DefaultFacetWidth  = 1200
	DefaultFacetHeight = 1000
	DefaultFillOpacity = 0.3
	defaultLineWidth   = 1.5
	panelTitleSize     = 12
	tickLabelSize      = 9
	legendSize         = 14
)

// DefaultFacetGrid leaves the top fifth of the figure for title, subtitle and legends.
func DefaultFacetGrid(l Layout) Grid {
	return Grid{Rows: l.Rows, Cols: l.Cols, Left: 0.05, Right: 0.98, Bottom: 0.06, Top: 0.80, WSpace: 0.12, HSpace: 0.28}
}

// BuildFacets lays out one panel per category: both series as lines, a dominance band per
// maximal run, a shared y-axis and a shared time axis. Cells past len(Categories) are
// listed in Figure.Removed.
func BuildFacets(tbl *table.Table, req FacetRequest, st *style.Style) (*Figure, error) {
	if err := req.Layout.Check(len(req.Categories)); err != nil {
		return nil, err
	}
	if err := tbl.CheckMeasures(req.A.Column, req.B.Column); err != nil {
		return nil, err
	}
	views := make([]*table.View, len(req.Categories))
	for i, c := range req.Categories {
		v, err := tbl.Subset(c)
		if err != nil {
			return nil, fmt.Errorf("facet %q: %w", c, err)
		}
		views[i] = v
	}

	opacity := req.FillOpacity
	if opacity <= 0 {
		opacity = DefaultFillOpacity
	}
	fillA := style.WithOpacity(req.A.FillColor, opacity)
	fillB := style.WithOpacity(req.B.FillColor, opacity)

	xMin, xMax := sharedTimeRange(views)
	xTicks := TimeTicks(xMin, xMax)
	yMin, yMax, yTicks := sharedValueAxis(views, req)

	axes := minimalAxes(st)
	fig := &Figure{
		Width:      orDefault(req.Width, DefaultFacetWidth),
		Height:     orDefault(req.Height, DefaultFacetHeight),
		DPI:        st.DPI,
		Background: st.Palette.Background,
		Grid:       DefaultFacetGrid(req.Layout),
		Removed:    req.Layout.Removed(len(req.Categories)),
	}
	if req.Grid != nil {
		fig.Grid = *req.Grid
		fig.Grid.Rows, fig.Grid.Cols = req.Layout.Rows, req.Layout.Cols
	}

	for i, v := range views {
		a := v.Values(req.A.Column)
		b := v.Values(req.B.Column)
		p := Panel{
			Cell:       i,
			Title:      v.Category,
			TitleFont:  style.FontStrong,
			TitleSize:  panelTitleSize,
			TitleColor: st.Palette.Text,
			XMin:       xMin,
			XMax:       xMax,
			XTicks:     xTicks,
			YMin:       yMin,
			YMax:       yMax,
			YTicks:     yTicks,
			Axes:       axes,
		}
		runs := DominanceRuns(a, b)
		for k, poly := range BandPolygons(v.Times, a, b, runs) {
			c := fillB
			if runs[k].Side == SideA {
				c = fillA
			}
			p.Bands = append(p.Bands, Band{Side: runs[k].Side, Start: runs[k].Start, End: runs[k].End, Color: c, Polygon: poly})
		}
		p.Lines = []Line{
			{Name: req.A.Label, Times: v.Times, Values: a, Color: req.A.Color, Width: orDefaultF(req.A.Width, defaultLineWidth)},
			{Name: req.B.Label, Times: v.Times, Values: b, Color: req.B.Color, Width: orDefaultF(req.B.Width, defaultLineWidth)},
		}
		fig.Panels = append(fig.Panels, p)
	}

	lineAt := [2]float64{0.66, 0.85}
	if req.LineLegendAt != nil {
		lineAt = *req.LineLegendAt
	}
	fillAt := [2]float64{0.66, 0.815}
	if req.FillLegendAt != nil {
		fillAt = *req.FillLegendAt
	}
	fig.Legends = []Legend{
		{
			X: lineAt[0], Y: lineAt[1], Columns: 2, Font: style.FontBody, Size: legendSize, Color: st.Palette.Text,
			HandleLength: 1.2, HandleHeight: 0.7, ColumnSpacing: 1,
			Entries: []LegendEntry{
				{Label: req.A.Label, Kind: EntryLine, Color: req.A.Color, Width: 1.2},
				{Label: req.B.Label, Kind: EntryLine, Color: req.B.Color, Width: 1.2},
			},
		},
		{
			X: fillAt[0], Y: fillAt[1], Columns: 2, Font: style.FontBody, Size: legendSize, Color: st.Palette.Text,
			HandleLength: 2, HandleHeight: 0.9, ColumnSpacing: 1,
			Entries: []LegendEntry{
				{Label: req.A.FillLabel, Kind: EntryPatch, Color: fillA},
				{Label: req.B.FillLabel, Kind: EntryPatch, Color: fillB},
			},
		},
	}
	fig.Texts = headerTexts(req.Text, st, textPlacement{
		titleY: 0.975, titleV: AlignTop, subtitleY: 0.925, subtitleV: AlignTop,
		captionX: 0.98, captionY: 0.012, titleSize: 26, subtitleSize: 20, captionSize: 12,
	})
	return fig, nil
}

func sharedTimeRange(views []*table.View) (time.Time, time.Time) {
	var lo, hi time.Time
	for i, v := range views {
		first, last := v.Times[0], v.Times[len(v.Times)-1]
		if i == 0 || first.Before(lo) {
			lo = first
		}
		if i == 0 || last.After(hi) {
			hi = last
		}
	}
	if !hi.After(lo) {
		hi = lo.Add(24 * time.Hour)
	}
	return lo, hi
}

func sharedValueAxis(views []*table.View, req FacetRequest) (float64, float64, []Tick) {
	if req.YAxis.Fixed() {
		return req.YAxis.Min, req.YAxis.Max, FixedTicks(req.YAxis.Min, req.YAxis.Max, req.YAxis.Step, req.YAxis.Format)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range views {
		for _, col := range []string{req.A.Column, req.B.Column} {
			for _, x := range v.Values(col) {
				if math.IsNaN(x) {
					continue
				}
				lo = math.Min(lo, x)
				hi = math.Max(hi, x)
			}
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	return NiceTicks(lo, hi, 8, true, req.YAxis.Format)
}

// minimalAxes is the facet decoration: no spines, no tick marks, a faint grid.
func minimalAxes(st *style.Style) Axes {
	return Axes{
		GridColor:  style.WithOpacity(st.Palette.Grid, style.ThemeMinimal.GridAlpha),
		GridWidth:  style.ThemeMinimal.GridWidth,
		LabelColor: st.Palette.Muted,
		LabelSize:  tickLabelSize,
	}
}

type textPlacement struct {
	titleY, subtitleY                    float64
	titleV, subtitleV                    VAlign
	captionX, captionY                   float64
	titleSize, subtitleSize, captionSize float64
}

func headerTexts(ts TextSpec, st *style.Style, pl textPlacement) []Text {
	var out []Text
	if ts.Title != "" {
		out = append(out, Text{Body: ts.Title, X: 0.05, Y: pl.titleY, Font: style.FontTitle, Size: orDefaultF(ts.TitleSize, pl.titleSize), Color: st.Palette.Title, HAlign: AlignLeft, VAlign: pl.titleV})
	}
	if ts.Subtitle != "" {
		out = append(out, Text{Body: ts.Subtitle, X: 0.05, Y: pl.subtitleY, Font: style.FontSubtitle, Size: orDefaultF(ts.SubtitleSize, pl.subtitleSize), Color: st.Palette.Subtitle, HAlign: AlignLeft, VAlign: pl.subtitleV})
	}
	if ts.Caption != "" {
		out = append(out, Text{Body: ts.Caption, X: pl.captionX, Y: pl.captionY, Font: style.FontSubtitle, Size: orDefaultF(ts.CaptionSize, pl.captionSize), Color: st.Palette.Text, HAlign: AlignRight, VAlign: AlignBottom})
	}
	return out
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orDefaultF(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
