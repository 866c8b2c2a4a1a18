package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
)

// BuildPalette starts from the default palette and applies the configured overrides.
func (s StyleConfig) BuildPalette() (style.Palette, error) {
	p := style.DefaultPalette()
	for name, hex := range s.Palette {
		c, err := style.ParseColor(hex)
		if err != nil {
			return style.Palette{}, fmt.Errorf("style.palette.%s: %w", name, err)
		}
		switch strings.ToLower(name) {
		case "background":
			p.Background = c
		case "text":
			p.Text = c
		case "muted":
			p.Muted = c
		case "grid":
			p.Grid = c
		case "title":
			p.Title = c
		case "subtitle":
			p.Subtitle = c
		case "line":
			p.Line = c
		case "marker":
			p.Marker = c
		default:
			return style.Palette{}, fmt.Errorf("style.palette: unknown color %q", name)
		}
	}
	return p, nil
}

// FontSources returns the configured font locations by role.
func (s StyleConfig) FontSources() style.FontSources {
	out := style.FontSources{}
	for role, src := range s.Fonts {
		out[style.FontRole(role)] = src
	}
	return out
}

// ThemeName returns the chart's theme, falling back to the shared one.
func (ch *ChartConfig) ThemeName(shared string) string {
	if ch.Theme != "" {
		return ch.Theme
	}
	return shared
}

// Schema describes the columns the chart reads.
func (ch *ChartConfig) Schema() table.Schema {
	s := table.Schema{
		TimeColumn:     ch.Data.TimeColumn,
		CategoryColumn: ch.Data.CategoryColumn,
		TimeLayouts:    ch.Data.TimeLayouts,
		Sheet:          ch.Data.Sheet,
	}
	switch {
	case ch.Facets != nil:
		s.Measures = appendUnique(s.Measures, ch.Facets.A.Column, ch.Facets.B.Column)
		if len(ch.Facets.Categories) == 0 {
			s.Measures = appendUnique(s.Measures, ch.Facets.Rank.Measure)
		}
	case ch.Highlight != nil:
		s.Measures = []string{ch.Highlight.Column}
	}
	return s
}

func appendUnique(list []string, names ...string) []string {
	for _, n := range names {
		found := false
		for _, l := range list {
			if l == n {
				found = true
				break
			}
		}
		if !found && n != "" {
			list = append(list, n)
		}
	}
	return list
}

// Spec converts a series to the builder's form.
func (s SeriesConfig) Spec() (figure.SeriesSpec, error) {
	line, err := style.ParseColor(s.Color)
	if err != nil {
		return figure.SeriesSpec{}, fmt.Errorf("color: %w", err)
	}
	fill := line
	if s.FillColor != "" {
		if fill, err = style.ParseColor(s.FillColor); err != nil {
			return figure.SeriesSpec{}, fmt.Errorf("fill_color: %w", err)
		}
	}
	label := s.Label
	if label == "" {
		label = s.Column
	}
	return figure.SeriesSpec{Column: s.Column, Label: label, Color: line, Width: s.Width, FillColor: fill, FillLabel: s.FillLabel}, nil
}

// AxisSpec converts the value axis settings.
func (a AxisConfig) AxisSpec() (figure.AxisSpec, error) {
	f, err := figure.ParseTickFormat(a.Format)
	if err != nil {
		return figure.AxisSpec{}, err
	}
	return figure.AxisSpec{Min: a.Min, Max: a.Max, Step: a.Step, Format: f}, nil
}

// TextSpec converts the text block.
func (t TextConfig) TextSpec() figure.TextSpec {
	return figure.TextSpec{
		Title:        t.Title,
		Subtitle:     t.Subtitle,
		Caption:      t.Caption,
		TitleSize:    t.TitleSize,
		SubtitleSize: t.SubtitleSize,
		CaptionSize:  t.CaptionSize,
	}
}

// RankSpec converts the ranking settings. A zero limit becomes rows*cols.
func (f *FacetConfig) RankSpec() (table.RankSpec, error) {
	var at time.Time
	if f.Rank.At != "" {
		var err error
		if at, err = table.ParseTime(f.Rank.At); err != nil {
			return table.RankSpec{}, fmt.Errorf("rank.at: %w", err)
		}
	}
	limit := f.Rank.Limit
	if limit == 0 {
		limit = f.Rows * f.Cols
	}
	return table.RankSpec{Measure: f.Rank.Measure, At: at, Baseline: f.Rank.Baseline, Ascending: f.Rank.Ascending, Limit: limit}, nil
}

// FacetRequest assembles the builder request for the given category order.
func (ch *ChartConfig) FacetRequest(categories []string) (figure.FacetRequest, error) {
	f := ch.Facets
	if f == nil {
		return figure.FacetRequest{}, fmt.Errorf("chart %s has no facets section", ch.Name)
	}
	a, err := f.A.Spec()
	if err != nil {
		return figure.FacetRequest{}, fmt.Errorf("series a: %w", err)
	}
	b, err := f.B.Spec()
	if err != nil {
		return figure.FacetRequest{}, fmt.Errorf("series b: %w", err)
	}
	axis, err := ch.YAxis.AxisSpec()
	if err != nil {
		return figure.FacetRequest{}, err
	}
	req := figure.FacetRequest{
		Categories:  categories,
		Layout:      figure.Layout{Rows: f.Rows, Cols: f.Cols},
		A:           a,
		B:           b,
		FillOpacity: f.FillOpacity,
		YAxis:       axis,
		Width:       ch.Width,
		Height:      ch.Height,
		Text:        ch.Text.TextSpec(),
	}
	if len(f.LineLegend) == 2 {
		req.LineLegendAt = &[2]float64{f.LineLegend[0], f.LineLegend[1]}
	}
	if len(f.FillLegend) == 2 {
		req.FillLegendAt = &[2]float64{f.FillLegend[0], f.FillLegend[1]}
	}
	return req, nil
}

// HighlightRequest assembles the builder request.
func (ch *ChartConfig) HighlightRequest() (figure.HighlightRequest, error) {
	h := ch.Highlight
	if h == nil {
		return figure.HighlightRequest{}, fmt.Errorf("chart %s has no highlight section", ch.Name)
	}
	period, err := figure.ParsePeriod(h.Period)
	if err != nil {
		return figure.HighlightRequest{}, err
	}
	axis, err := ch.YAxis.AxisSpec()
	if err != nil {
		return figure.HighlightRequest{}, err
	}
	return figure.HighlightRequest{
		Period:         period,
		YAxis:          axis,
		Width:          ch.Width,
		Height:         ch.Height,
		Text:           ch.Text.TextSpec(),
		LineWidth:      h.LineWidth,
		MarkerRadius:   h.MarkerRadius,
		AnnotationSize: h.AnnotationSize,
		TickLabelSize:  h.TickLabelSize,
	}, nil
}
