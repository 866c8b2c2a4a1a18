package config

import (
	"errors"
	"fmt"

	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if !vizlog.ValidLevel(c.Runtime.LogLevel) {
		return fmt.Errorf("runtime.log_level %q is not one of debug, info, warn, error", c.Runtime.LogLevel)
	}
	if c.Runtime.HTTPTimeout < 0 {
		return errors.New("runtime.http_timeout must be >= 0")
	}

	if _, err := style.ThemeByName(c.Style.Theme); err != nil {
		return fmt.Errorf("style.theme: %w", err)
	}
	if c.Style.DPI <= 0 {
		return fmt.Errorf("style.dpi must be > 0, got %v", c.Style.DPI)
	}
	for role := range c.Style.Fonts {
		if !knownRole(role) {
			return fmt.Errorf("style.fonts: unknown role %q", role)
		}
	}
	if _, err := c.Style.BuildPalette(); err != nil {
		return err
	}

	if len(c.Charts) == 0 {
		return errors.New("charts: at least one chart is required")
	}
	seen := map[string]bool{}
	for i := range c.Charts {
		ch := &c.Charts[i]
		prefix := fmt.Sprintf("charts[%d]", i)
		if ch.Name == "" {
			return fmt.Errorf("%s.name is required", prefix)
		}
		if seen[ch.Name] {
			return fmt.Errorf("%s.name %q is used twice", prefix, ch.Name)
		}
		seen[ch.Name] = true
		if err := ch.validate(prefix); err != nil {
			return err
		}
	}
	return nil
}

func (ch *ChartConfig) validate(prefix string) error {
	if ch.Data.Source == "" {
		return fmt.Errorf("%s.data.source is required", prefix)
	}
	if ch.Data.TimeColumn == "" {
		return fmt.Errorf("%s.data.time_column is required", prefix)
	}
	if ch.Width < 1 || ch.Height < 1 {
		return fmt.Errorf("%s: width and height must be >= 1, got %dx%d", prefix, ch.Width, ch.Height)
	}
	if ch.Theme != "" {
		if _, err := style.ThemeByName(ch.Theme); err != nil {
			return fmt.Errorf("%s.theme: %w", prefix, err)
		}
	}
	if _, err := figure.ParseTickFormat(ch.YAxis.Format); err != nil {
		return fmt.Errorf("%s.y_axis.format: %w", prefix, err)
	}
	if ch.YAxis.Step < 0 {
		return fmt.Errorf("%s.y_axis.step must be >= 0", prefix)
	}
	if ch.YAxis.Step > 0 && ch.YAxis.Max <= ch.YAxis.Min {
		return fmt.Errorf("%s.y_axis.max (%v) must exceed min (%v)", prefix, ch.YAxis.Max, ch.YAxis.Min)
	}

	switch ch.Kind {
	case KindFacets:
		if ch.Facets == nil {
			return fmt.Errorf("%s.facets is required for kind %q", prefix, ch.Kind)
		}
		return ch.Facets.validate(prefix+".facets", ch.Data)
	case KindHighlight:
		if ch.Highlight == nil {
			return fmt.Errorf("%s.highlight is required for kind %q", prefix, ch.Kind)
		}
		return ch.Highlight.validate(prefix + ".highlight")
	case "":
		return fmt.Errorf("%s.kind is required", prefix)
	default:
		return fmt.Errorf("%s.kind %q is not one of %s, %s", prefix, ch.Kind, KindFacets, KindHighlight)
	}
}

func (f *FacetConfig) validate(prefix string, data DataConfig) error {
	if data.CategoryColumn == "" {
		return fmt.Errorf("%s: data.category_column is required", prefix)
	}
	if f.Rows < 1 || f.Cols < 1 {
		return fmt.Errorf("%s.rows and cols must be >= 1", prefix)
	}
	for _, s := range []struct {
		name string
		cfg  SeriesConfig
	}{{"a", f.A}, {"b", f.B}} {
		if s.cfg.Column == "" {
			return fmt.Errorf("%s.%s.column is required", prefix, s.name)
		}
		if _, err := s.cfg.Spec(); err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, s.name, err)
		}
	}
	if f.FillOpacity < 0 || f.FillOpacity > 1 {
		return fmt.Errorf("%s.fill_opacity must be in [0,1], got %v", prefix, f.FillOpacity)
	}
	if len(f.Categories) == 0 && f.Rank.Measure == "" {
		return fmt.Errorf("%s: either categories or rank.measure is required", prefix)
	}
	if f.Rank.At != "" {
		if _, err := table.ParseTime(f.Rank.At); err != nil {
			return fmt.Errorf("%s.rank.at: %w", prefix, err)
		}
	}
	if f.Rank.Limit < 0 {
		return fmt.Errorf("%s.rank.limit must be >= 0", prefix)
	}
	for _, l := range [][]float64{f.LineLegend, f.FillLegend} {
		if len(l) != 0 && len(l) != 2 {
			return fmt.Errorf("%s: legend positions must be [x, y]", prefix)
		}
	}
	return nil
}

func (h *HighlightConfig) validate(prefix string) error {
	if h.Column == "" {
		return fmt.Errorf("%s.column is required", prefix)
	}
	if _, err := figure.ParsePeriod(h.Period); err != nil {
		return fmt.Errorf("%s.period: %w", prefix, err)
	}
	return nil
}

func knownRole(role string) bool {
	for _, r := range style.FontRoles {
		if string(r) == role {
			return true
		}
	}
	return false
}
