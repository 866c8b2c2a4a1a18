// Package config loads chart job files.
//
// A job file lists the charts to draw together with the data source, styling and layout of
// each. Values may reference environment variables as ${VAR}. Runtime settings can also be
// overridden with VIZ_* environment variables.
package config

import "time"

// Chart kinds.
const (
	KindFacets    = "facets"
	KindHighlight = "highlight"
)

// Config is the root of a job file.
type Config struct {
	Runtime RuntimeConfig `yaml:"runtime"`
	Style   StyleConfig   `yaml:"style"`
	Charts  []ChartConfig `yaml:"charts"`
}

// RuntimeConfig holds process-level settings. Each field can be overridden from the
// environment (VIZ_LOG_LEVEL, VIZ_OUTPUT_DIR, VIZ_CACHE_DIR, VIZ_HTTP_TIMEOUT).
type RuntimeConfig struct {
	LogLevel    string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
	OutputDir   string        `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	CacheDir    string        `yaml:"cache_dir" envconfig:"CACHE_DIR"` // on-disk cache for fonts and remote data
	HTTPTimeout time.Duration `yaml:"http_timeout" envconfig:"HTTP_TIMEOUT"`
}

// StyleConfig selects fonts, colors and the axis theme shared by all charts.
type StyleConfig struct {
	Theme string  `yaml:"theme"`
	DPI   float64 `yaml:"dpi"`
	// Fonts maps a role (title, subtitle, body, strong) to a URL or path.
	Fonts map[string]string `yaml:"fonts"`
	// Palette overrides named colors (background, text, muted, grid, title, subtitle, line, marker).
	Palette map[string]string `yaml:"palette"`
}

// ChartConfig describes one output image.
type ChartConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Output string `yaml:"output"` // file name, relative to runtime.output_dir
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// Theme overrides style.theme for this chart.
	Theme     string           `yaml:"theme"`
	Data      DataConfig       `yaml:"data"`
	Text      TextConfig       `yaml:"text"`
	YAxis     AxisConfig       `yaml:"y_axis"`
	Facets    *FacetConfig     `yaml:"facets,omitempty"`
	Highlight *HighlightConfig `yaml:"highlight,omitempty"`
}

// DataConfig locates and describes the input table.
type DataConfig struct {
	Source         string   `yaml:"source"`
	Sheet          string   `yaml:"sheet"`
	TimeColumn     string   `yaml:"time_column"`
	TimeLayouts    []string `yaml:"time_layouts,omitempty"`
	CategoryColumn string   `yaml:"category_column"`
}

// TextConfig holds the figure-level texts.
type TextConfig struct {
	Title        string  `yaml:"title"`
	Subtitle     string  `yaml:"subtitle"`
	Caption      string  `yaml:"caption"`
	TitleSize    float64 `yaml:"title_size"`
	SubtitleSize float64 `yaml:"subtitle_size"`
	CaptionSize  float64 `yaml:"caption_size"`
}

// AxisConfig fixes the value axis when step > 0 and max > min; otherwise it is computed.
type AxisConfig struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Step   float64 `yaml:"step"`
	Format string  `yaml:"format"` // thousands, plain or percent
}

// SeriesConfig is one of the two compared series of a facet chart.
type SeriesConfig struct {
	Column    string  `yaml:"column"`
	Label     string  `yaml:"label"`
	Color     string  `yaml:"color"`
	Width     float64 `yaml:"width"`
	FillColor string  `yaml:"fill_color"`
	FillLabel string  `yaml:"fill_label"`
}

// RankConfig orders categories when no explicit list is given.
type RankConfig struct {
	Measure   string `yaml:"measure"`
	At        string `yaml:"at"` // date of the rows to rank on; empty means latest
	Baseline  string `yaml:"baseline"`
	Ascending bool   `yaml:"ascending"`
	Limit     int    `yaml:"limit"` // zero means rows*cols
}

// FacetConfig is the facet-specific part of a chart.
type FacetConfig struct {
	Rows        int          `yaml:"rows"`
	Cols        int          `yaml:"cols"`
	A           SeriesConfig `yaml:"a"`
	B           SeriesConfig `yaml:"b"`
	FillOpacity float64      `yaml:"fill_opacity"`
	// Categories, when set, are drawn in this order and Rank is ignored.
	Categories []string   `yaml:"categories,omitempty"`
	Rank       RankConfig `yaml:"rank"`
	// LineLegend and FillLegend are [x, y] figure fractions of the legends' bottom-left corners.
	LineLegend []float64 `yaml:"line_legend,omitempty"`
	FillLegend []float64 `yaml:"fill_legend,omitempty"`
}

// HighlightConfig is the single-series part of a chart.
type HighlightConfig struct {
	Column         string  `yaml:"column"`
	Scale          float64 `yaml:"scale"`
	Period         string  `yaml:"period"`
	LineWidth      float64 `yaml:"line_width"`
	MarkerRadius   float64 `yaml:"marker_radius"`
	AnnotationSize float64 `yaml:"annotation_size"`
	TickLabelSize  float64 `yaml:"tick_label_size"`
}

// Chart returns the chart named name.
func (c *Config) Chart(name string) (*ChartConfig, bool) {
	for i := range c.Charts {
		if c.Charts[i].Name == name {
			return &c.Charts[i], true
		}
	}
	return nil, false
}

// Names returns the chart names in file order.
func (c *Config) Names() []string {
	out := make([]string, 0, len(c.Charts))
	for _, ch := range c.Charts {
		out = append(out, ch.Name)
	}
	return out
}
