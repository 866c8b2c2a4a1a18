package figure

import "github.com/iafilius/DataVizDesign/src/vizerr"

// Layout is a rows×cols facet grid. Cells are numbered row-major from the top-left.
type Layout struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Cells returns rows*cols.
func (l Layout) Cells() int { return l.Rows * l.Cols }

// Check fails with a LayoutError when panels do not fit the grid.
func (l Layout) Check(panels int) error {
	switch {
	case l.Rows < 1 || l.Cols < 1:
		return &vizerr.LayoutError{Rows: l.Rows, Cols: l.Cols, Panels: panels, Reason: "rows and cols must be >= 1"}
	case panels < 1:
		return &vizerr.LayoutError{Rows: l.Rows, Cols: l.Cols, Panels: panels, Reason: "no categories to draw"}
	case panels > l.Cells():
		return &vizerr.LayoutError{Rows: l.Rows, Cols: l.Cols, Panels: panels, Reason: "more categories than grid cells"}
	}
	return nil
}

// Removed returns the cells past the last panel.
func (l Layout) Removed(panels int) []int {
	var out []int
	for c := panels; c < l.Cells(); c++ {
		out = append(out, c)
	}
	return out
}

// RowCol returns the row and column of cell.
func (l Layout) RowCol(cell int) (int, int) {
	if l.Cols < 1 {
		return 0, 0
	}
	return cell / l.Cols, cell % l.Cols
}
