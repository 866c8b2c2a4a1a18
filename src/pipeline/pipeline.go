// Package pipeline runs configured chart jobs end to end: fonts, table, category selection,
// figure building, rasterization and output.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iafilius/DataVizDesign/src/config"
	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/render"
	"github.com/iafilius/DataVizDesign/src/resource"
	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// Runner holds what charts of one config share: the fetcher and the loaded fonts.
type Runner struct {
	Config  *config.Config
	Fetcher *resource.Fetcher
	// Style, when set, is used instead of loading fonts. Its theme is replaced per chart.
	Style *style.Style
}

// Result describes one rendered chart.
type Result struct {
	Chart    string
	Path     string
	DumpPath string
	Figure   *figure.Figure
}

// New returns a Runner whose fetcher follows cfg.Runtime.
func New(cfg *config.Config) *Runner {
	return &Runner{
		Config: cfg,
		Fetcher: &resource.Fetcher{
			Client:   &http.Client{Timeout: cfg.Runtime.HTTPTimeout},
			CacheDir: cfg.Runtime.CacheDir,
		},
	}
}

// Select returns the named charts in the given order, or every chart when names is empty.
func (r *Runner) Select(names []string) ([]*config.ChartConfig, error) {
	if len(names) == 0 {
		out := make([]*config.ChartConfig, 0, len(r.Config.Charts))
		for i := range r.Config.Charts {
			out = append(out, &r.Config.Charts[i])
		}
		return out, nil
	}
	out := make([]*config.ChartConfig, 0, len(names))
	for _, n := range names {
		ch, ok := r.Config.Chart(n)
		if !ok {
			return nil, fmt.Errorf("unknown chart %q (configured: %s)", n, strings.Join(r.Config.Names(), ", "))
		}
		out = append(out, ch)
	}
	return out, nil
}

// LoadStyle loads the configured fonts once and returns the style for ch.
func (r *Runner) LoadStyle(ctx context.Context, ch *config.ChartConfig) (*style.Style, error) {
	if r.Style == nil {
		palette, err := r.Config.Style.BuildPalette()
		if err != nil {
			return nil, err
		}
		theme, err := style.ThemeByName(r.Config.Style.Theme)
		if err != nil {
			return nil, err
		}
		st, err := style.Load(ctx, r.Fetcher, r.Config.Style.FontSources(), palette, theme, r.Config.Style.DPI)
		if err != nil {
			return nil, err
		}
		r.Style = st
	}
	theme, err := style.ThemeByName(ch.ThemeName(r.Style.Theme.Name))
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	st := *r.Style
	st.Theme = theme
	return &st, nil
}

// Build loads ch's data and returns its figure with the style to render it with.
func (r *Runner) Build(ctx context.Context, ch *config.ChartConfig) (*figure.Figure, *style.Style, error) {
	defer vizlog.TimeTrack(time.Now(), "build "+ch.Name)
	st, err := r.LoadStyle(ctx, ch)
	if err != nil {
		return nil, nil, err
	}
	tbl, err := table.Load(ctx, r.Fetcher, ch.Data.Source, ch.Schema())
	if err != nil {
		return nil, nil, err
	}

	var fig *figure.Figure
	switch ch.Kind {
	case config.KindFacets:
		fig, err = r.buildFacets(tbl, ch, st)
	case config.KindHighlight:
		fig, err = buildHighlight(tbl, ch, st)
	default:
		err = fmt.Errorf("chart %s: unknown kind %q", ch.Name, ch.Kind)
	}
	if err != nil {
		return nil, nil, err
	}
	vizlog.Debugf("[pipeline] %s: %s", ch.Name, fig.Summary())
	return fig, st, nil
}

func (r *Runner) buildFacets(tbl *table.Table, ch *config.ChartConfig, st *style.Style) (*figure.Figure, error) {
	categories := ch.Facets.Categories
	if len(categories) == 0 {
		spec, err := ch.Facets.RankSpec()
		if err != nil {
			return nil, err
		}
		if categories, err = tbl.Rank(spec); err != nil {
			return nil, err
		}
		vizlog.Infof("[pipeline] %s: ranked categories %s", ch.Name, strings.Join(categories, ", "))
	}
	req, err := ch.FacetRequest(categories)
	if err != nil {
		return nil, err
	}
	return figure.BuildFacets(tbl, req, st)
}

func buildHighlight(tbl *table.Table, ch *config.ChartConfig, st *style.Style) (*figure.Figure, error) {
	s, err := tbl.Series(ch.Highlight.Column)
	if err != nil {
		return nil, err
	}
	if ch.Highlight.Scale != 0 && ch.Highlight.Scale != 1 {
		s = s.Scale(ch.Highlight.Scale)
	}
	req, err := ch.HighlightRequest()
	if err != nil {
		return nil, err
	}
	return figure.BuildHighlight(s, req, st)
}

// Render builds ch and writes it as PNG under outDir, plus a YAML instruction dump next to it
// when dump is set. An empty outDir means the configured output directory.
func (r *Runner) Render(ctx context.Context, ch *config.ChartConfig, outDir string, dump bool) (Result, error) {
	if outDir == "" {
		outDir = r.Config.Runtime.OutputDir
	}
	fig, st, err := r.Build(ctx, ch)
	if err != nil {
		return Result{}, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	res := Result{Chart: ch.Name, Path: filepath.Join(outDir, ch.Output), Figure: fig}
	if err := render.WriteFile(res.Path, fig, st); err != nil {
		return Result{}, fmt.Errorf("chart %s: %w", ch.Name, err)
	}
	if dump {
		res.DumpPath = strings.TrimSuffix(res.Path, filepath.Ext(res.Path)) + ".yaml"
		if err := writeDump(res.DumpPath, fig); err != nil {
			return Result{}, fmt.Errorf("chart %s: %w", ch.Name, err)
		}
	}
	return res, nil
}

// RenderAll renders the named charts (all when names is empty) one after another and stops at
// the first failure.
func (r *Runner) RenderAll(ctx context.Context, names []string, outDir string, dump bool) ([]Result, error) {
	charts, err := r.Select(names)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(charts))
	for _, ch := range charts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.Render(ctx, ch, outDir, dump)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func writeDump(path string, fig *figure.Figure) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	if err := figure.Dump(f, fig); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dump: %w", err)
	}
	vizlog.Infof("[pipeline] wrote %s", path)
	return nil
}
