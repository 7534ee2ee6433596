package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXStore reads and writes .xlsx workbooks. The first sheet is the
// table; row one is the header.
type XLSXStore struct{}

func NewXLSXStore() *XLSXStore { return &XLSXStore{} }

func (s *XLSXStore) ReadTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheet, path, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	return NewTable(rows[0], rows[1:]), nil
}

func (s *XLSXStore) WriteTable(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for c, col := range t.Columns {
		ref, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("header cell for column %d: %w", c, err)
		}
		if err := f.SetCellValue(sheet, ref, col.Name); err != nil {
			return fmt.Errorf("write header %q: %w", col.Name, err)
		}
		for r, cell := range col.Cells {
			if cell.Missing {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell ref for %s row %d: %w", col.Name, r, err)
			}
			if err := f.SetCellValue(sheet, ref, cell.Value); err != nil {
				return fmt.Errorf("write cell %s row %d: %w", col.Name, r, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
