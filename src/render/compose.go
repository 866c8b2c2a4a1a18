// Package render rasterizes figure instruction lists.
//
// Each panel is drawn by go-chart into its own image and composited into the figure canvas
// at its grid cell. Figure-level texts and legends are drawn on top with freetype faces.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// CellRect returns the pixel rectangle of grid cell idx. Cells are numbered row-major from the
// top-left; gaps between cells are WSpace/HSpace times the cell size.
func CellRect(fig *figure.Figure, idx int) image.Rectangle {
	g := fig.Grid
	if g.Rows < 1 || g.Cols < 1 {
		return image.Rectangle{}
	}
	W, H := float64(fig.Width), float64(fig.Height)
	areaW := (g.Right - g.Left) * W
	areaH := (g.Top - g.Bottom) * H
	cellW := areaW / (float64(g.Cols) + g.WSpace*float64(g.Cols-1))
	cellH := areaH / (float64(g.Rows) + g.HSpace*float64(g.Rows-1))
	r, c := idx/g.Cols, idx%g.Cols
	x0 := g.Left*W + float64(c)*cellW*(1+g.WSpace)
	y0 := (1-g.Top)*H + float64(r)*cellH*(1+g.HSpace)
	return image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x0+cellW)), int(math.Round(y0+cellH)),
	)
}

// Image rasterizes fig. Removed cells and empty space are left as background.
func Image(fig *figure.Figure, st *style.Style) (*image.RGBA, error) {
	defer vizlog.TimeTrack(time.Now(), "render")
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if fig.Width <= 0 || fig.Height <= 0 {
		return nil, fmt.Errorf("figure size %dx%d is not positive", fig.Width, fig.Height)
	}
	if fig.DPI <= 0 {
		f := *fig
		f.DPI = st.DPI
		fig = &f
	}
	dst := image.NewRGBA(image.Rect(0, 0, fig.Width, fig.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(fig.Background), image.Point{}, draw.Src)

	for _, p := range fig.Panels {
		rect := CellRect(fig, p.Cell)
		if rect.Dx() < 10 || rect.Dy() < 10 {
			return nil, fmt.Errorf("panel %d: cell %v too small to draw", p.Cell, rect)
		}
		img, err := renderPanel(p, rect.Dx(), rect.Dy(), fig, st)
		if err != nil {
			return nil, err
		}
		draw.Draw(dst, rect, img, img.Bounds().Min, draw.Src)
		vizlog.Debugf("[render] panel %d %q at %v", p.Cell, p.Title, rect)
	}
	for _, lg := range fig.Legends {
		drawLegend(dst, fig, lg, st)
	}
	for _, t := range fig.Texts {
		drawText(dst, fig, t, st)
	}
	return dst, nil
}

// PNG rasterizes fig and encodes it.
func PNG(fig *figure.Figure, st *style.Style) ([]byte, error) {
	img, err := Image(fig, st)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile rasterizes fig to a PNG file, creating parent directories.
func WriteFile(path string, fig *figure.Figure, st *style.Style) error {
	b, err := PNG(fig, st)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	vizlog.Infof("[render] wrote %s (%s)", path, fig.Summary())
	return nil
}
