// Package vizerr defines the error kinds a chart run can fail with.
//
// Every kind is fatal to the run: there is no retry and no partial output. Callers wrap these
// with fmt.Errorf("...: %w", err) and match them with errors.As.
package vizerr

import (
	"errors"
	"fmt"
	"strings"
)

// DataError reports data that cannot be drawn: a category with no rows, a bad numeric cell,
// or a series without a single finite value.
type DataError struct {
	Category string
	Row      int // 1-based source row, 0 when not row specific
	Column   string
	Reason   string
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString("data error")
	if e.Category != "" {
		fmt.Fprintf(&b, " category=%q", e.Category)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row=%d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column=%q", e.Column)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// SchemaError reports expected columns missing from a source.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s is missing column(s) %s", e.Source, strings.Join(quoteAll(e.Missing), ", "))
}

// LayoutError reports a grid that cannot hold the requested panels.
type LayoutError struct {
	Rows, Cols int
	Panels     int
	Reason     string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout error: %dx%d grid, %d panels: %s", e.Rows, e.Cols, e.Panels, e.Reason)
}

// ResourceError reports a font or remote data resource that could not be fetched or decoded.
type ResourceError struct {
	URL string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error: %s: %v", e.URL, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Process exit codes per error kind.
const (
	ExitOK       = 0
	ExitOther    = 1
	ExitData     = 2
	ExitSchema   = 3
	ExitLayout   = 4
	ExitResource = 5
)

// ExitCode maps err to the process exit code of its kind.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		de *DataError
		se *SchemaError
		le *LayoutError
		re *ResourceError
	)
	switch {
	case errors.As(err, &de):
		return ExitData
	case errors.As(err, &se):
		return ExitSchema
	case errors.As(err, &le):
		return ExitLayout
	case errors.As(err, &re):
		return ExitResource
	default:
		return ExitOther
	}
}

// Kind returns a short lowercase name for err's kind ("data", "schema", "layout", "resource", "other").
func Kind(err error) string {
	switch ExitCode(err) {
	case ExitOK:
		return ""
	case ExitData:
		return "data"
	case ExitSchema:
		return "schema"
	case ExitLayout:
		return "layout"
	case ExitResource:
		return "resource"
	default:
		return "other"
	}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
