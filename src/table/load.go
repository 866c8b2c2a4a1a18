package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iafilius/DataVizDesign/src/resource"
	"github.com/iafilius/DataVizDesign/src/vizerr"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// Schema names the columns a chart needs. CategoryColumn is empty for single-series data.
type Schema struct {
	TimeColumn     string
	CategoryColumn string
	Measures       []string
	// TimeLayouts overrides DefaultTimeLayouts.
	TimeLayouts []string
	// Sheet selects a worksheet for XLSX sources; the first sheet when empty.
	Sheet string
}

// DefaultTimeLayouts are tried in order for every time cell.
var DefaultTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01",
	"2006",
}

// Load reads src (a path or URL, CSV or XLSX) through f and checks it against schema.
func Load(ctx context.Context, f *resource.Fetcher, src string, schema Schema) (*Table, error) {
	defer vizlog.TimeTrack(time.Now(), "load "+src)
	b, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	var records [][]string
	if isXLSX(src) {
		records, err = readXLSX(b, schema.Sheet)
	} else {
		records, err = readCSV(bytes.NewReader(b))
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	t, err := FromRecords(src, records, schema)
	if err != nil {
		return nil, err
	}
	vizlog.Infof("[table] %s: %d rows, %d categories", src, t.Len(), len(t.Categories()))
	return t, nil
}

func isXLSX(src string) bool {
	p := strings.SplitN(src, "?", 2)[0]
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

func readXLSX(b []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// FromRecords builds a Table from a header row followed by data rows.
func FromRecords(src string, records [][]string, schema Schema) (*Table, error) {
	if len(records) == 0 {
		return nil, &vizerr.SchemaError{Source: src, Missing: required(schema)}
	}
	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, c := range required(schema) {
		if _, ok := header[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &vizerr.SchemaError{Source: src, Missing: missing}
	}
	layouts := schema.TimeLayouts
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}

	ti := header[schema.TimeColumn]
	ci := -1
	if schema.CategoryColumn != "" {
		ci = header[schema.CategoryColumn]
	}
	t := &Table{
		source:         src,
		timeColumn:     schema.TimeColumn,
		categoryColumn: schema.CategoryColumn,
		measures:       append([]string(nil), schema.Measures...),
	}
	rows := make([]row, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		if isBlank(rec) {
			continue
		}
		ts, err := parseTime(cell(rec, ti), layouts)
		if err != nil {
			return nil, &vizerr.DataError{Row: line, Column: schema.TimeColumn, Reason: err.Error()}
		}
		r := row{time: ts, values: make([]float64, len(schema.Measures))}
		if ci >= 0 {
			r.category = strings.TrimSpace(cell(rec, ci))
		}
		for j, m := range schema.Measures {
			v, err := parseNumber(cell(rec, header[m]))
			if err != nil {
				return nil, &vizerr.DataError{Category: r.category, Row: line, Column: m, Reason: err.Error()}
			}
			r.values[j] = v
		}
		rows = append(rows, r)
	}

	// Categories keep first-appearance order; rows are time ordered within each category.
	order := map[string]int{}
	for _, r := range rows {
		if _, ok := order[r.category]; !ok {
			order[r.category] = len(t.categories)
			t.categories = append(t.categories, r.category)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := order[rows[i].category], order[rows[j].category]
		if oi != oj {
			return oi < oj
		}
		return rows[i].time.Before(rows[j].time)
	})
	t.rows = rows
	return t, nil
}

func required(s Schema) []string {
	out := []string{s.TimeColumn}
	if s.CategoryColumn != "" {
		out = append(out, s.CategoryColumn)
	}
	return append(out, s.Measures...)
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ParseTime parses s with the default layouts, in UTC.
func ParseTime(s string) (time.Time, error) {
	return parseTime(strings.TrimSpace(s), DefaultTimeLayouts)
}

func parseTime(s string, layouts []string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	for _, l := range layouts {
		if ts, err := time.ParseInLocation(l, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsInf(v, 0) {
		return 0, fmt.Errorf("infinite value %q", s)
	}
	return v, nil
}
