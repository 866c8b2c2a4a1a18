// Package table holds time-series data loaded once at start and read repeatedly.
//
// A Table is never mutated after FromRecords returns. Views and Series hand out copies, so a
// caller cannot reach back into the table.
package table

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/iafilius/DataVizDesign/src/vizerr"
)

type row struct {
	category string
	time     time.Time
	values   []float64
}

// Table is an immutable set of (category, time, measures...) rows.
type Table struct {
	source         string
	timeColumn     string
	categoryColumn string
	measures       []string
	categories     []string
	rows           []row
}

// Source returns the location the table was loaded from.
func (t *Table) Source() string { return t.source }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Measures returns the measure column names in schema order.
func (t *Table) Measures() []string { return append([]string(nil), t.measures...) }

// Categories returns categories in first-appearance order. Single-series tables return [""].
func (t *Table) Categories() []string { return append([]string(nil), t.categories...) }

// HasCategory reports whether at least one row belongs to category.
func (t *Table) HasCategory(category string) bool {
	for _, c := range t.categories {
		if c == category {
			return true
		}
	}
	return false
}

// CheckMeasures returns a SchemaError listing every name that is not a loaded measure.
func (t *Table) CheckMeasures(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, err := t.measureIndex(n); err != nil {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return &vizerr.SchemaError{Source: t.source, Missing: missing}
	}
	return nil
}

func (t *Table) measureIndex(name string) (int, error) {
	for i, m := range t.measures {
		if m == name {
			return i, nil
		}
	}
	return -1, &vizerr.SchemaError{Source: t.source, Missing: []string{name}}
}

// View is the time-ordered slice of one category.
type View struct {
	Category string
	Times    []time.Time
	columns  map[string][]float64
}

// Len returns the number of points in the view.
func (v *View) Len() int { return len(v.Times) }

// Values returns a copy of the named measure.
func (v *View) Values(measure string) []float64 {
	return append([]float64(nil), v.columns[measure]...)
}

// Series extracts one measure as a Series.
func (v *View) Series(measure string) Series {
	return Series{
		Name:   measure,
		Times:  append([]time.Time(nil), v.Times...),
		Values: v.Values(measure),
	}
}

// Subset returns the rows of category. A category with no rows is a DataError.
func (t *Table) Subset(category string) (*View, error) {
	v := &View{Category: category, columns: make(map[string][]float64, len(t.measures))}
	for _, r := range t.rows {
		if r.category != category {
			continue
		}
		v.Times = append(v.Times, r.time)
		for i, m := range t.measures {
			v.columns[m] = append(v.columns[m], r.values[i])
		}
	}
	if len(v.Times) == 0 {
		return nil, &vizerr.DataError{Category: category, Reason: "no rows for category"}
	}
	return v, nil
}

// Series returns measure over all rows. It is meant for tables without a category column;
// on categorised tables it is the same as Subset(first category).Series(measure).
func (t *Table) Series(measure string) (Series, error) {
	if _, err := t.measureIndex(measure); err != nil {
		return Series{}, err
	}
	if len(t.categories) == 0 {
		return Series{}, &vizerr.DataError{Column: measure, Reason: "table has no rows"}
	}
	v, err := t.Subset(t.categories[0])
	if err != nil {
		return Series{}, err
	}
	return v.Series(measure), nil
}

// RankSpec selects and orders categories for facet placement.
type RankSpec struct {
	// Measure is the ranking statistic column.
	Measure string
	// At picks the rows to rank on. Zero means each category's latest row.
	At time.Time
	// Baseline is always placed first when present in the table.
	Baseline string
	// Ascending reverses the default descending order.
	Ascending bool
	// Limit caps the result length including the baseline. Zero means no cap.
	Limit int
}

// Rank orders categories by spec. Categories with no row at spec.At are left out; the
// baseline is kept whenever it has any rows. Equal statistics keep first-appearance order.
func (t *Table) Rank(spec RankSpec) ([]string, error) {
	mi, err := t.measureIndex(spec.Measure)
	if err != nil {
		return nil, err
	}
	type ranked struct {
		name string
		stat float64
	}
	stats := map[string]float64{}
	seen := map[string]bool{}
	for _, r := range t.rows {
		if !spec.At.IsZero() && !r.time.Equal(spec.At) {
			continue
		}
		// rows are time ordered within a category, so the last one wins for "latest"
		stats[r.category] = r.values[mi]
		seen[r.category] = true
	}
	var list []ranked
	for _, c := range t.categories {
		if c == spec.Baseline || !seen[c] || math.IsNaN(stats[c]) {
			continue
		}
		list = append(list, ranked{name: c, stat: stats[c]})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if spec.Ascending {
			return list[i].stat < list[j].stat
		}
		return list[i].stat > list[j].stat
	})
	var out []string
	if spec.Baseline != "" {
		if !t.HasCategory(spec.Baseline) {
			return nil, &vizerr.DataError{Category: spec.Baseline, Reason: "baseline category has no rows"}
		}
		out = append(out, spec.Baseline)
	}
	for _, r := range list {
		out = append(out, r.name)
	}
	if spec.Limit > 0 && len(out) > spec.Limit {
		out = out[:spec.Limit]
	}
	return out, nil
}

// Series is a single time-ordered measure.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Times) }

// Scale returns a copy with every value multiplied by factor.
func (s Series) Scale(factor float64) Series {
	out := Series{Name: s.Name, Times: append([]time.Time(nil), s.Times...), Values: make([]float64, len(s.Values))}
	for i, v := range s.Values {
		out.Values[i] = v * factor
	}
	return out
}

// MinMax returns the indexes of the global minimum and maximum. NaN values are skipped and
// the first occurrence wins on ties. A series without a finite value is a DataError.
func (s Series) MinMax() (minIdx, maxIdx int, err error) {
	minIdx, maxIdx = -1, -1
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if minIdx < 0 || v < s.Values[minIdx] {
			minIdx = i
		}
		if maxIdx < 0 || v > s.Values[maxIdx] {
			maxIdx = i
		}
	}
	if minIdx < 0 {
		return -1, -1, &vizerr.DataError{Column: s.Name, Reason: "series has no finite values"}
	}
	return minIdx, maxIdx, nil
}

// Describe renders a short human readable summary, used by the inspector.
func (s Series) Describe() string {
	if s.Len() == 0 {
		return fmt.Sprintf("%s: empty", s.Name)
	}
	lo, hi, err := s.MinMax()
	if err != nil {
		return fmt.Sprintf("%s: %d points, %v", s.Name, s.Len(), err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d points %s..%s", s.Name, s.Len(), s.Times[0].Format("2006-01-02"), s.Times[s.Len()-1].Format("2006-01-02"))
	fmt.Fprintf(&b, " min=%.4g@%s max=%.4g@%s", s.Values[lo], s.Times[lo].Format("2006-01-02"), s.Values[hi], s.Times[hi].Format("2006-01-02"))
	return b.String()
}
