// Package tabular is the spreadsheet boundary: an ordered-column table
// model, a Store interface and an xlsx implementation. Everything above
// this package works on Tables and never touches a workbook directly.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one table entry. Short columns are padded with missing cells so
// every column reports the same length; callers that care about real
// counts must skip missing cells.
type Cell struct {
	Value   string
	Missing bool
}

// Float parses the cell as a number. Textual content inside a numeric
// column is an error for the caller to handle, never a silent coercion.
func (c Cell) Float() (float64, error) {
	if c.Missing {
		return 0, fmt.Errorf("cell is missing")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric cell %q", c.Value)
	}
	return v, nil
}

// Column is a named cell sequence.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is a set of equal-length named columns in source order.
type Table struct {
	Columns []Column
}

// NewTable builds a table from header names and row-major string data.
// Empty strings become missing cells; rows shorter than the header are
// padded.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		t.Columns[i] = Column{Name: name, Cells: make([]Cell, len(rows))}
	}
	for r, row := range rows {
		for c := range header {
			if c < len(row) && strings.TrimSpace(row[c]) != "" {
				t.Columns[c].Cells[r] = Cell{Value: row[c]}
			} else {
				t.Columns[c].Cells[r] = Cell{Missing: true}
			}
		}
	}
	return t
}

// RowCount is the padded column length shared by every column.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns header names in source order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column finds a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Cell fetches one entry by row index and column name.
func (t *Table) Cell(row int, column string) (Cell, bool) {
	col, ok := t.Column(column)
	if !ok || row < 0 || row >= len(col.Cells) {
		return Cell{}, false
	}
	return col.Cells[row], true
}

// SelectRows builds a view containing only the given row indices, in the
// order given. Column order is preserved.
func (t *Table) SelectRows(indices []int) *Table {
	view := &Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		cells := make([]Cell, 0, len(indices))
		for _, idx := range indices {
			cells = append(cells, col.Cells[idx])
		}
		view.Columns[i] = Column{Name: col.Name, Cells: cells}
	}
	return view
}

// AppendColumn adds a column, padding it (or every other column) with
// missing cells so lengths stay equal.
func (t *Table) AppendColumn(name string, cells []Cell) {
	rows := t.RowCount()
	if len(t.Columns) == 0 {
		rows = len(cells)
	}
	if len(cells) < rows {
		padded := make([]Cell, rows)
		copy(padded, cells)
		for i := len(cells); i < rows; i++ {
			padded[i] = Cell{Missing: true}
		}
		cells = padded
	} else if len(cells) > rows {
		for i := range t.Columns {
			for len(t.Columns[i].Cells) < len(cells) {
				t.Columns[i].Cells = append(t.Columns[i].Cells, Cell{Missing: true})
			}
		}
	}
	t.Columns = append(t.Columns, Column{Name: name, Cells: cells})
}

// Store reads and writes tables by path.
type Store interface {
	ReadTable(path string) (*Table, error)
	WriteTable(path string, t *Table) error
}
