package config

import (
	"time"

	"github.com/iafilius/DataVizDesign/src/style"
)

// Default values for optional configuration fields.
const (
	DefaultLogLevel        = "info"
	DefaultOutputDir       = "out"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultTheme           = "minimal"
	DefaultDPI             = 100
	DefaultFacetWidth      = 1200
	DefaultFacetHeight     = 1000
	DefaultHighlightWidth  = 1200
	DefaultHighlightHeight = 800
	DefaultFillOpacity     = 0.3
	DefaultPeriod          = "day"
)

// Default reproduces the two reference charts: New Zealand migration by citizenship as a
// 3×3 facet grid and US CPI with min/max highlights.
func Default() *Config {
	cfg := &Config{
		Charts: []ChartConfig{
			{
				Name:   "nz-migration",
				Kind:   KindFacets,
				Output: "nz_migration_facets.png",
				Data: DataConfig{
					Source:         "https://raw.githubusercontent.com/martingeew/data_viz_design_demo/main/data/nz_migration_facet_data_202312.csv",
					TimeColumn:     "Month",
					CategoryColumn: "Citizenship",
				},
				Text: TextConfig{
					Title:    "Which migrants are replacing the New Zealand citizens who leave?",
					Subtitle: "Long-term migration in New Zealand by citizenship (12-month rolling sum, top 9 citizenships)",
					Caption:  "Source: Statistics NZ\nautonomousecon.substack.com",
				},
				YAxis: AxisConfig{Min: 0, Max: 70000, Step: 10000, Format: "thousands"},
				Facets: &FacetConfig{
					Rows: 3,
					Cols: 3,
					A:    SeriesConfig{Column: "departures_sum", Label: "Departures", Color: "#2166ACFF", FillColor: "#4393C3FF", FillLabel: "Net outflow"},
					B:    SeriesConfig{Column: "arrivals_sum", Label: "Arrivals", Color: "#B2182BFF", FillColor: "#D6604DFF", FillLabel: "Net inflow"},
					Rank: RankConfig{Measure: "net_sum", At: "2023-12-01", Baseline: "New Zealand"},
				},
			},
			{
				Name:   "us-cpi",
				Kind:   KindHighlight,
				Output: "us_cpi.png",
				Data: DataConfig{
					Source:     "https://raw.githubusercontent.com/martingeew/data_viz_design_demo/main/data/us_cpi_quarterly.csv",
					TimeColumn: "date",
				},
				Text: TextConfig{
					Title:    "Consumer Price Index: Total for United States",
					Subtitle: "Growth rate same period previous year, Quarterly, Not Seasonally Adjusted",
					Caption:  "Source: FRED",
				},
				YAxis:     AxisConfig{Format: "plain"},
				Highlight: &HighlightConfig{Column: "value", Scale: 100, Period: "quarter"},
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Runtime.LogLevel == "" {
		c.Runtime.LogLevel = DefaultLogLevel
	}
	if c.Runtime.OutputDir == "" {
		c.Runtime.OutputDir = DefaultOutputDir
	}
	if c.Runtime.HTTPTimeout == 0 {
		c.Runtime.HTTPTimeout = DefaultHTTPTimeout
	}

	if c.Style.Theme == "" {
		c.Style.Theme = DefaultTheme
	}
	if c.Style.DPI == 0 {
		c.Style.DPI = DefaultDPI
	}
	if c.Style.Fonts == nil {
		c.Style.Fonts = map[string]string{}
	}
	for role, src := range style.DefaultFontSources() {
		if c.Style.Fonts[string(role)] == "" {
			c.Style.Fonts[string(role)] = src
		}
	}

	for i := range c.Charts {
		c.Charts[i].applyDefaults()
	}
}

func (ch *ChartConfig) applyDefaults() {
	if ch.Kind == "" {
		switch {
		case ch.Facets != nil:
			ch.Kind = KindFacets
		case ch.Highlight != nil:
			ch.Kind = KindHighlight
		}
	}
	if ch.Output == "" && ch.Name != "" {
		ch.Output = ch.Name + ".png"
	}
	switch ch.Kind {
	case KindFacets:
		if ch.Width == 0 {
			ch.Width = DefaultFacetWidth
		}
		if ch.Height == 0 {
			ch.Height = DefaultFacetHeight
		}
		if ch.Facets != nil && ch.Facets.FillOpacity == 0 {
			ch.Facets.FillOpacity = DefaultFillOpacity
		}
	case KindHighlight:
		if ch.Width == 0 {
			ch.Width = DefaultHighlightWidth
		}
		if ch.Height == 0 {
			ch.Height = DefaultHighlightHeight
		}
		if ch.Highlight != nil {
			if ch.Highlight.Scale == 0 {
				ch.Highlight.Scale = 1
			}
			if ch.Highlight.Period == "" {
				ch.Highlight.Period = DefaultPeriod
			}
		}
	}
}
