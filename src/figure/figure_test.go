package figure

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/DataVizDesign/src/style"
	"github.com/iafilius/DataVizDesign/src/table"
	"github.com/iafilius/DataVizDesign/src/vizerr"
)

var testSchema = table.Schema{TimeColumn: "Month", CategoryColumn: "Country", Measures: []string{"departures", "arrivals"}}

// buildTable makes n categories c0..c{n-1} with three monthly rows each.
func buildTable(t *testing.T, n int) (*table.Table, []string) {
	t.Helper()
	recs := [][]string{{"Month", "Country", "departures", "arrivals"}}
	var cats []string
	for c := 0; c < n; c++ {
		name := "c" + strconv.Itoa(c)
		cats = append(cats, name)
		for m := 1; m <= 3; m++ {
			dep := 1000 * (c + m)
			arr := 1000 * (c + 4 - m)
			recs = append(recs, []string{fmt.Sprintf("2023-%02d-01", m), name, strconv.Itoa(dep), strconv.Itoa(arr)})
		}
	}
	tbl, err := table.FromRecords("test.csv", recs, testSchema)
	require.NoError(t, err)
	return tbl, cats
}

func facetRequest(cats []string) FacetRequest {
	return FacetRequest{
		Categories: cats,
		Layout:     Layout{Rows: 3, Cols: 3},
		A:          SeriesSpec{Column: "departures", Label: "Departures", Color: style.MustColor("#2166AC"), FillColor: style.MustColor("#4393C3"), FillLabel: "Net outflow"},
		B:          SeriesSpec{Column: "arrivals", Label: "Arrivals", Color: style.MustColor("#B2182B"), FillColor: style.MustColor("#D6604D"), FillLabel: "Net inflow"},
		YAxis:      AxisSpec{Min: 0, Max: 70000, Step: 10000, Format: FormatThousands},
		Text:       TextSpec{Title: "Migration", Subtitle: "Monthly", Caption: "Source: test"},
	}
}

func days(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2023, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestDominanceRuns_PartitionIndexRange(t *testing.T) {
	a := []float64{1, 3, 3, 0, 5}
	b := []float64{2, 2, 3, 1, 1}
	runs := DominanceRuns(a, b)
	assert.Equal(t, []Run{
		{Side: SideB, Start: 0, End: 0},
		{Side: SideA, Start: 1, End: 1},
		{Side: SideB, Start: 2, End: 3},
		{Side: SideA, Start: 4, End: 4},
	}, runs)

	next := 0
	for i, r := range runs {
		assert.Equal(t, next, r.Start)
		next = r.End + 1
		if i > 0 {
			assert.NotEqual(t, runs[i-1].Side, r.Side, "neighbouring runs must alternate")
		}
	}
	assert.Equal(t, len(a), next)
}

func TestDominant_TiesAndNaNGoToB(t *testing.T) {
	assert.Equal(t, SideB, Dominant(2, 2))
	assert.Equal(t, SideB, Dominant(math.NaN(), 1))
	assert.Equal(t, SideB, Dominant(1, math.NaN()))
	assert.Equal(t, SideA, Dominant(2, 1))
}

func TestBandPolygons_ShareCrossing(t *testing.T) {
	times := days(2)
	a := []float64{0, 2}
	b := []float64{1, 1}
	runs := DominanceRuns(a, b)
	polys := BandPolygons(times, a, b, runs)
	require.Len(t, polys, 2)

	cross := Point{Time: times[0].Add(12 * time.Hour), Value: 1}
	assert.Equal(t, []Point{{times[0], 0}, cross, {times[0], 1}}, polys[0])
	assert.Equal(t, []Point{cross, {times[1], 2}, {times[1], 1}}, polys[1])
}

func TestBandPolygons_SingleRunHasNoCrossing(t *testing.T) {
	times := days(3)
	a := []float64{5, 6, 7}
	b := []float64{1, 2, 3}
	polys := BandPolygons(times, a, b, DominanceRuns(a, b))
	require.Len(t, polys, 1)
	assert.Len(t, polys[0], 6)
}

func TestLayout_CheckAndRemoved(t *testing.T) {
	l := Layout{Rows: 3, Cols: 3}
	require.NoError(t, l.Check(9))
	assert.Empty(t, l.Removed(9))
	assert.Equal(t, []int{5, 6, 7, 8}, l.Removed(5))

	var le *vizerr.LayoutError
	assert.True(t, errors.As(l.Check(10), &le))
	assert.True(t, errors.As(Layout{Rows: 0, Cols: 3}.Check(1), &le))
	assert.True(t, errors.As(l.Check(0), &le))

	r, c := l.RowCol(5)
	assert.Equal(t, 1, r)
	assert.Equal(t, 2, c)
}

func TestBuildFacets_FullGrid(t *testing.T) {
	tbl, cats := buildTable(t, 9)
	fig, err := BuildFacets(tbl, facetRequest(cats), style.Stub())
	require.NoError(t, err)
	assert.Len(t, fig.Panels, 9)
	assert.Empty(t, fig.Removed)
	assert.Equal(t, DefaultFacetWidth, fig.Width)
	assert.Equal(t, DefaultFacetHeight, fig.Height)
}

func TestBuildFacets_RemovesUnusedCells(t *testing.T) {
	tbl, cats := buildTable(t, 5)
	fig, err := BuildFacets(tbl, facetRequest(cats), style.Stub())
	require.NoError(t, err)
	assert.Len(t, fig.Panels, 5)
	assert.Equal(t, []int{5, 6, 7, 8}, fig.Removed)
	for i, p := range fig.Panels {
		assert.Equal(t, i, p.Cell)
		assert.Equal(t, cats[i], p.Title)
	}
}

func TestBuildFacets_SharedAxes(t *testing.T) {
	tbl, cats := buildTable(t, 4)
	fig, err := BuildFacets(tbl, facetRequest(cats), style.Stub())
	require.NoError(t, err)

	first := fig.Panels[0]
	require.Len(t, first.YTicks, 8)
	assert.Equal(t, "0", first.YTicks[0].Label)
	assert.Equal(t, "70k", first.YTicks[7].Label)
	for _, p := range fig.Panels[1:] {
		assert.Equal(t, first.YMin, p.YMin)
		assert.Equal(t, first.YMax, p.YMax)
		assert.Equal(t, first.YTicks, p.YTicks)
		assert.Equal(t, first.XTicks, p.XTicks)
		assert.True(t, first.XMin.Equal(p.XMin))
		assert.False(t, p.Axes.LeftSpine || p.Axes.BottomSpine || p.Axes.TickMarks)
	}
}

func TestBuildFacets_AutoAxisCoversAllPanels(t *testing.T) {
	tbl, cats := buildTable(t, 4)
	req := facetRequest(cats)
	req.YAxis = AxisSpec{Format: FormatThousands}
	fig, err := BuildFacets(tbl, req, style.Stub())
	require.NoError(t, err)
	// largest value is c3 at month 3: 6000
	assert.Equal(t, 0.0, fig.Panels[0].YMin)
	assert.GreaterOrEqual(t, fig.Panels[0].YMax, 6000.0)
	for _, p := range fig.Panels {
		assert.Equal(t, fig.Panels[0].YTicks, p.YTicks)
	}
}

func TestBuildFacets_BandsFollowDominance(t *testing.T) {
	tbl, cats := buildTable(t, 1)
	req := facetRequest(cats)
	req.Layout = Layout{Rows: 1, Cols: 1}
	fig, err := BuildFacets(tbl, req, style.Stub())
	require.NoError(t, err)

	// c0: departures 1000,2000,3000; arrivals 3000,2000,1000
	p := fig.Panels[0]
	require.Len(t, p.Bands, 2)
	assert.Equal(t, SideB, p.Bands[0].Side)
	assert.Equal(t, 0, p.Bands[0].Start)
	assert.Equal(t, 1, p.Bands[0].End)
	assert.Equal(t, SideA, p.Bands[1].Side)
	assert.Equal(t, uint8(77), p.Bands[1].Color.A)
	assert.Equal(t, req.A.FillColor.R, p.Bands[1].Color.R)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, "Departures", p.Lines[0].Name)

	require.Len(t, fig.Legends, 2)
	assert.Equal(t, "Net outflow", fig.Legends[1].Entries[0].Label)
	assert.Equal(t, EntryPatch, fig.Legends[1].Entries[0].Kind)
	require.Len(t, fig.Texts, 3)
	assert.Equal(t, AlignRight, fig.Texts[2].HAlign)
}

func TestBuildFacets_Errors(t *testing.T) {
	tbl, cats := buildTable(t, 3)

	_, err := BuildFacets(tbl, facetRequest(append(cats, "Atlantis")), style.Stub())
	var de *vizerr.DataError
	require.True(t, errors.As(err, &de), "got %v", err)
	assert.Equal(t, "Atlantis", de.Category)

	req := facetRequest(cats)
	req.A.Column = "net"
	_, err = BuildFacets(tbl, req, style.Stub())
	var se *vizerr.SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, []string{"net"}, se.Missing)

	req = facetRequest(cats)
	req.Layout = Layout{Rows: 1, Cols: 2}
	_, err = BuildFacets(tbl, req, style.Stub())
	var le *vizerr.LayoutError
	assert.True(t, errors.As(err, &le), "got %v", err)
}

func TestTickFormatting(t *testing.T) {
	assert.Equal(t, "45k", FormatTick(FormatThousands, 45000))
	assert.Equal(t, "500", FormatTick(FormatThousands, 500))
	assert.Equal(t, "1k", Thousands(1500))
	assert.Equal(t, "0", Thousands(0))
	assert.Equal(t, "2.5%", FormatTick(FormatPercent, 2.5))
	assert.Equal(t, "12.5", FormatTick(FormatPlain, 12.5))

	f, err := ParseTickFormat("Thousands")
	require.NoError(t, err)
	assert.Equal(t, FormatThousands, f)
	_, err = ParseTickFormat("roman")
	assert.Error(t, err)
}

func TestNiceTicks_AnchorsZero(t *testing.T) {
	lo, hi, ticks := NiceTicks(1200, 6300, 8, true, FormatPlain)
	assert.Equal(t, 0.0, lo)
	assert.GreaterOrEqual(t, hi, 6300.0)
	require.NotEmpty(t, ticks)
	assert.Equal(t, lo, ticks[0].Value)
	assert.Equal(t, hi, ticks[len(ticks)-1].Value)
}

func TestTimeTicks_Yearly(t *testing.T) {
	ticks := TimeTicks(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC))
	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"2019", "2020", "2021", "2022", "2023"}, labels)
}

func TestPeriodLabel(t *testing.T) {
	ts := time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2022 Q2", PeriodLabel(ts, PeriodQuarter))
	assert.Equal(t, "May 2022", PeriodLabel(ts, PeriodMonth))
	assert.Equal(t, "2022", PeriodLabel(ts, PeriodYear))
	assert.Equal(t, "2022-05-02", PeriodLabel(ts, PeriodDay))
}

func quarterly(values ...float64) table.Series {
	s := table.Series{Name: "cpi", Values: values}
	for i := range values {
		s.Times = append(s.Times, time.Date(2022, time.Month(1+3*i), 1, 0, 0, 0, 0, time.UTC))
	}
	return s
}

func TestBuildHighlight_MinMaxAnnotations(t *testing.T) {
	s := quarterly(1.5, -0.5, 3.2, 0.1)
	fig, err := BuildHighlight(s, HighlightRequest{Period: PeriodQuarter}, style.Stub())
	require.NoError(t, err)
	require.Len(t, fig.Panels, 1)
	p := fig.Panels[0]

	require.Len(t, p.Markers, 2)
	assert.True(t, p.Markers[0].At.Time.Equal(s.Times[2]), "max marker at the 3.2 timestamp")
	assert.Equal(t, 3.2, p.Markers[0].At.Value)
	assert.True(t, p.Markers[1].At.Time.Equal(s.Times[1]), "min marker at the -0.5 timestamp")
	assert.Equal(t, -0.5, p.Markers[1].At.Value)

	require.Len(t, p.Annotations, 2)
	assert.Equal(t, "2022 Q3: 3.2", p.Annotations[0].Text)
	assert.Equal(t, "2022 Q2: -0.5", p.Annotations[1].Text)
	assert.Less(t, p.Annotations[0].OffsetY, 0.0, "max label above")
	assert.Greater(t, p.Annotations[1].OffsetY, 0.0, "min label below")
	assert.Equal(t, AlignLeft, p.Annotations[0].HAlign)
	assert.LessOrEqual(t, p.YMin, -0.5)
	assert.GreaterOrEqual(t, p.YMax, 3.2)
}

func TestBuildHighlight_RightQuarterAlignsRight(t *testing.T) {
	s := quarterly(1, 2, 3, 4, 5)
	fig, err := BuildHighlight(s, HighlightRequest{Period: PeriodYear}, style.Stub())
	require.NoError(t, err)
	p := fig.Panels[0]
	require.Len(t, p.Annotations, 2)
	assert.Equal(t, AlignRight, p.Annotations[0].HAlign)
	assert.Equal(t, AlignLeft, p.Annotations[1].HAlign)
	assert.Equal(t, "2023: 5.0", p.Annotations[0].Text)
}

func TestBuildHighlight_ConstantSeriesOneMarker(t *testing.T) {
	fig, err := BuildHighlight(quarterly(2, 2, 2), HighlightRequest{}, style.Stub())
	require.NoError(t, err)
	assert.Len(t, fig.Panels[0].Markers, 1)
}

func TestBuildHighlight_NoFiniteValues(t *testing.T) {
	_, err := BuildHighlight(quarterly(math.NaN(), math.NaN()), HighlightRequest{}, style.Stub())
	var de *vizerr.DataError
	assert.True(t, errors.As(err, &de), "got %v", err)
}

func TestDump_Deterministic(t *testing.T) {
	tbl, cats := buildTable(t, 5)
	var out [2]bytes.Buffer
	for i := range out {
		fig, err := BuildFacets(tbl, facetRequest(cats), style.Stub())
		require.NoError(t, err)
		require.NoError(t, Dump(&out[i], fig))
	}
	assert.Equal(t, out[0].String(), out[1].String())
	assert.Contains(t, out[0].String(), "removed:")
	assert.Contains(t, out[0].String(), "title: c4")
}
