package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/DataVizDesign/src/figure"
	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
)

func facetFigure(t *testing.T, n int) *figure.Figure {
	t.Helper()
	recs := [][]string{{"Month", "Country", "dep", "arr"}}
	var cats []string
	for c := 0; c < n; c++ {
		name := "Country " + strconv.Itoa(c)
		cats = append(cats, name)
		for m := 1; m <= 12; m++ {
			dep := 20000 + 1500*c + 900*(m%5)
			arr := 21000 + 1200*c + 1100*((m+2)%4)
			recs = append(recs, []string{fmt.Sprintf("2023-%02d-01", m), name, strconv.Itoa(dep), strconv.Itoa(arr)})
		}
	}
	tbl, err := table.FromRecords("test.csv", recs, table.Schema{TimeColumn: "Month", CategoryColumn: "Country", Measures: []string{"dep", "arr"}})
	require.NoError(t, err)
	fig, err := figure.BuildFacets(tbl, figure.FacetRequest{
		Categories: cats,
		Layout:     figure.Layout{Rows: 3, Cols: 3},
		A:          figure.SeriesSpec{Column: "dep", Label: "Departures", Color: style.MustColor("#2166AC"), FillColor: style.MustColor("#4393C3"), FillLabel: "Net outflow"},
		B:          figure.SeriesSpec{Column: "arr", Label: "Arrivals", Color: style.MustColor("#B2182B"), FillColor: style.MustColor("#D6604D"), FillLabel: "Net inflow"},
		YAxis:      figure.AxisSpec{Min: 0, Max: 70000, Step: 10000, Format: figure.FormatThousands},
		Width:      600,
		Height:     500,
		Text:       figure.TextSpec{Title: "Migration", Subtitle: "Arrivals and departures", Caption: "Source: test"},
	}, style.Stub())
	require.NoError(t, err)
	return fig
}

func isBackground(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff && a == 0xffff
}

func TestImage_Size(t *testing.T) {
	img, err := Image(facetFigure(t, 9), style.Stub())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 600, 500), img.Bounds())
}

func TestPNG_Idempotent(t *testing.T) {
	fig := facetFigure(t, 5)
	a, err := PNG(fig, style.Stub())
	require.NoError(t, err)
	b, err := PNG(facetFigure(t, 5), style.Stub())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "rendering the same inputs twice must give identical bytes")
}

func TestImage_RemovedCellsStayBlank(t *testing.T) {
	fig := facetFigure(t, 5)
	require.Equal(t, []int{5, 6, 7, 8}, fig.Removed)
	img, err := Image(fig, style.Stub())
	require.NoError(t, err)

	for _, cell := range fig.Removed {
		rect := CellRect(fig, cell)
		require.False(t, rect.Empty())
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if !isBackground(img.At(x, y)) {
					t.Fatalf("cell %d pixel (%d,%d) is not background", cell, x, y)
				}
			}
		}
	}

	drawn := 0
	rect := CellRect(fig, 0)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if !isBackground(img.At(x, y)) {
				drawn++
			}
		}
	}
	assert.Greater(t, drawn, 100, "cell 0 should contain the panel")
}

func TestCellRect_GridDoesNotOverlap(t *testing.T) {
	fig := &figure.Figure{Width: 1200, Height: 1000, Grid: figure.DefaultFacetGrid(figure.Layout{Rows: 3, Cols: 3})}
	bounds := image.Rect(0, 0, fig.Width, fig.Height)
	for i := 0; i < 9; i++ {
		ri := CellRect(fig, i)
		assert.True(t, ri.In(bounds), "cell %d %v outside figure", i, ri)
		for j := i + 1; j < 9; j++ {
			assert.False(t, ri.Overlaps(CellRect(fig, j)), "cells %d and %d overlap", i, j)
		}
	}
	// same row, same height
	assert.Equal(t, CellRect(fig, 0).Dy(), CellRect(fig, 2).Dy())
	assert.Less(t, CellRect(fig, 0).Min.Y, CellRect(fig, 3).Min.Y)
}

func TestWriteFile_CreatesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "facets.png")
	require.NoError(t, WriteFile(path, facetFigure(t, 4), style.Stub()))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestImage_Highlight(t *testing.T) {
	s := table.Series{Name: "cpi"}
	for i, v := range []float64{1.5, -0.5, 3.2, 0.1, 1.1, 2.0} {
		s.Times = append(s.Times, time.Date(2022, time.Month(1+3*i), 1, 0, 0, 0, 0, time.UTC))
		s.Values = append(s.Values, v)
	}
	fig, err := figure.BuildHighlight(s, figure.HighlightRequest{
		Period: figure.PeriodQuarter,
		Width:  600,
		Height: 400,
		Text:   figure.TextSpec{Title: "Inflation", Subtitle: "Quarterly change", Caption: "Source: test"},
	}, style.Stub())
	require.NoError(t, err)
	img, err := Image(fig, style.Stub())
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())

	// the max marker is drawn in the marker color somewhere inside the panel
	mk := style.Stub().Palette.Marker
	found := false
	rect := CellRect(fig, 0)
	for y := rect.Min.Y; y < rect.Max.Y && !found; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R == mk.R && c.G == mk.G && c.B == mk.B {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "marker color not found")
}

func TestImage_RequiresFonts(t *testing.T) {
	st := style.Stub()
	delete(st.Fonts, style.FontTitle)
	_, err := Image(facetFigure(t, 2), st)
	assert.Error(t, err)
}

func TestDrawText_Alignment(t *testing.T) {
	fig := &figure.Figure{Width: 200, Height: 100, DPI: 100}
	st := style.Stub()
	dst := image.NewRGBA(image.Rect(0, 0, 200, 100))
	drawText(dst, fig, figure.Text{Body: "caption", X: 0.98, Y: 0.5, Font: style.FontBody, Size: 10, Color: st.Palette.Text, HAlign: figure.AlignRight, VAlign: figure.AlignBaseline}, st)

	minX, maxX := 200, -1
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if dst.RGBAAt(x, y).A != 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	require.GreaterOrEqual(t, maxX, 0, "nothing drawn")
	assert.LessOrEqual(t, maxX, 196, "right aligned text must end at the anchor")
	assert.Greater(t, minX, 100)
}

func TestDrawText_LongTitleStaysInsideFigure(t *testing.T) {
	fig := &figure.Figure{Width: 1200, Height: 200, DPI: 100}
	st := style.Stub()
	title := figure.Text{
		Body:   "Which migrants are replacing the New Zealand citizens who leave?",
		X:      0.05,
		Y:      0.9,
		Font:   style.FontTitle,
		Size:   40,
		Color:  st.Palette.Title,
		HAlign: figure.AlignLeft,
		VAlign: figure.AlignTop,
	}
	room := textRoom(fig.Width, 60, figure.AlignLeft)
	assert.Equal(t, 1080, room)
	assert.Less(t, fitSize(st, title, room), title.Size, "the title is too wide at its nominal size")

	dst := image.NewRGBA(image.Rect(0, 0, fig.Width, fig.Height))
	drawText(dst, fig, title, st)
	maxX := -1
	for y := 0; y < fig.Height; y++ {
		for x := 0; x < fig.Width; x++ {
			if dst.RGBAAt(x, y).A != 0 && x > maxX {
				maxX = x
			}
		}
	}
	require.GreaterOrEqual(t, maxX, 0, "nothing drawn")
	assert.LessOrEqual(t, maxX, 1142, "the title keeps the left margin on the right")

	short := title
	short.Body = "Migration"
	assert.Equal(t, short.Size, fitSize(st, short, room))
}

func TestImage_SpinesAndTickMarksFollowAxes(t *testing.T) {
	render := func(mut func(a *figure.Axes)) []byte {
		fig := facetFigure(t, 1)
		mut(&fig.Panels[0].Axes)
		b, err := PNG(fig, style.Stub())
		require.NoError(t, err)
		return b
	}
	bare := render(func(a *figure.Axes) {})
	spines := render(func(a *figure.Axes) { a.LeftSpine, a.BottomSpine = true, true })
	ticks := render(func(a *figure.Axes) { a.TickMarks = true })
	both := render(func(a *figure.Axes) { a.LeftSpine, a.BottomSpine, a.TickMarks = true, true, true })

	assert.False(t, bytes.Equal(bare, spines), "spines must change the output")
	assert.False(t, bytes.Equal(bare, ticks), "tick marks are drawn without spines")
	assert.False(t, bytes.Equal(spines, both), "tick marks are drawn independently of spines")
}
