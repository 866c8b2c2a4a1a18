package table

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iafilius/DataVizDesign/src/resource"
	"github.com/iafilius/DataVizDesign/src/vizerr"
)

const migrationCSV = `Month,Citizenship,arrivals_sum,departures_sum,net_sum
2023-11-01,New Zealand,26000,48000,-22000
2023-12-01,New Zealand,26500,47000,-20500
2023-12-01,India,48000,6000,42000
2023-11-01,India,46000,5900,40100
2023-12-01,China,30000,9000,21000
2023-11-01,China,29000,9100,19900
2023-12-01,Philippines,33000,4000,29000
2023-11-01,Fiji,5000,1000,4000
`

var migrationSchema = Schema{
	TimeColumn:     "Month",
	CategoryColumn: "Citizenship",
	Measures:       []string{"arrivals_sum", "departures_sum", "net_sum"},
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func loadMigration(t *testing.T) *Table {
	t.Helper()
	tbl, err := Load(context.Background(), &resource.Fetcher{}, writeFile(t, "nz.csv", migrationCSV), migrationSchema)
	require.NoError(t, err)
	return tbl
}

func TestLoadCSV_OrdersByCategoryThenTime(t *testing.T) {
	tbl := loadMigration(t)
	assert.Equal(t, 8, tbl.Len())
	assert.Equal(t, []string{"New Zealand", "India", "China", "Philippines", "Fiji"}, tbl.Categories())

	v, err := tbl.Subset("India")
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())
	assert.True(t, v.Times[0].Before(v.Times[1]), "rows must be time ordered within a category")
	assert.Equal(t, []float64{46000, 48000}, v.Values("arrivals_sum"))
	assert.Equal(t, []float64{5900, 6000}, v.Values("departures_sum"))
}

func TestSubset_IsImmutableCopy(t *testing.T) {
	tbl := loadMigration(t)
	v, err := tbl.Subset("China")
	require.NoError(t, err)
	vals := v.Values("net_sum")
	vals[0] = -1
	again, err := tbl.Subset("China")
	require.NoError(t, err)
	assert.Equal(t, 19900.0, again.Values("net_sum")[0])
}

func TestSubset_EmptyCategoryIsDataError(t *testing.T) {
	tbl := loadMigration(t)
	_, err := tbl.Subset("Atlantis")
	var de *vizerr.DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Atlantis", de.Category)
}

func TestLoad_MissingColumnIsSchemaError(t *testing.T) {
	p := writeFile(t, "bad.csv", "Month,Citizenship,arrivals_sum\n2023-12-01,India,1\n")
	_, err := Load(context.Background(), &resource.Fetcher{}, p, migrationSchema)
	var se *vizerr.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"departures_sum", "net_sum"}, se.Missing)
}

func TestLoad_BadNumberIsDataError(t *testing.T) {
	p := writeFile(t, "bad.csv", "Month,Citizenship,arrivals_sum,departures_sum,net_sum\n2023-12-01,India,lots,1,2\n")
	_, err := Load(context.Background(), &resource.Fetcher{}, p, migrationSchema)
	var de *vizerr.DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Row)
	assert.Equal(t, "arrivals_sum", de.Column)
}

func TestLoad_MissingFileIsResourceError(t *testing.T) {
	_, err := Load(context.Background(), &resource.Fetcher{}, filepath.Join(t.TempDir(), "none.csv"), migrationSchema)
	assert.Equal(t, vizerr.ExitResource, vizerr.ExitCode(err))
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"date", "value"},
		{"2020-01-01", "0.023"},
		{"2020-04-01", "0.003"},
		{"2020-07-01", "0.012"},
	}
	for i, r := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &r))
	}
	p := filepath.Join(t.TempDir(), "cpi.xlsx")
	require.NoError(t, f.SaveAs(p))

	tbl, err := Load(context.Background(), &resource.Fetcher{}, p, Schema{TimeColumn: "date", Measures: []string{"value"}})
	require.NoError(t, err)
	s, err := tbl.Series("value")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.InDelta(t, 0.003, s.Values[1], 1e-12)
	assert.Equal(t, time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC), s.Times[2])
}

func TestRank_BaselineFirstThenDescending(t *testing.T) {
	tbl := loadMigration(t)
	at := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	names, err := tbl.Rank(RankSpec{Measure: "net_sum", At: at, Baseline: "New Zealand"})
	require.NoError(t, err)
	// Fiji has no December row and is left out.
	assert.Equal(t, []string{"New Zealand", "India", "Philippines", "China"}, names)

	limited, err := tbl.Rank(RankSpec{Measure: "net_sum", At: at, Baseline: "New Zealand", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Zealand", "India"}, limited)

	latest, err := tbl.Rank(RankSpec{Measure: "net_sum", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"New Zealand", "Fiji", "China", "Philippines", "India"}, latest)
}

func TestRank_Errors(t *testing.T) {
	tbl := loadMigration(t)
	_, err := tbl.Rank(RankSpec{Measure: "gross"})
	assert.Equal(t, vizerr.ExitSchema, vizerr.ExitCode(err))
	_, err = tbl.Rank(RankSpec{Measure: "net_sum", Baseline: "Atlantis"})
	assert.Equal(t, vizerr.ExitData, vizerr.ExitCode(err))
	assert.Error(t, tbl.CheckMeasures("net_sum", "gross"))
	assert.NoError(t, tbl.CheckMeasures("net_sum", "arrivals_sum"))
}

func TestSeriesMinMax(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Series{
		Name:   "value",
		Times:  []time.Time{base, base.AddDate(0, 3, 0), base.AddDate(0, 6, 0), base.AddDate(0, 9, 0)},
		Values: []float64{1.5, -0.5, 3.2, 0.1},
	}
	lo, hi, err := s.MinMax()
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 2, hi)

	ties := Series{Name: "v", Times: s.Times, Values: []float64{math.NaN(), 2, 2, 1}}
	lo, hi, err = ties.MinMax()
	require.NoError(t, err)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 1, hi, "first occurrence wins on ties")

	_, _, err = Series{Name: "v", Times: s.Times[:1], Values: []float64{math.NaN()}}.MinMax()
	assert.Equal(t, vizerr.ExitData, vizerr.ExitCode(err))

	scaled := s.Scale(100)
	assert.InDelta(t, 320.0, scaled.Values[2], 1e-9)
	assert.Equal(t, 1.5, s.Values[0], "Scale must not modify the receiver")
	assert.Contains(t, s.Describe(), "min=-0.5@2020-04-01")
}
