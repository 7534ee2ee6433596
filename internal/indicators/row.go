package indicators

import (
	"strconv"
	"strings"

	"gareport/internal/domain"
	"gareport/internal/tabular"
)

// binSentinels mark a Bins cell that was deliberately left unusable in
// the source spreadsheet.
var binSentinels = map[string]bool{"!": true, "!!": true, "!!!": true}

// RowAssessed reports whether the row should be processed at all. Rows
// marked "no" in an Assessed column are skipped before any parsing; a
// table without that column assesses everything.
func RowAssessed(t *tabular.Table, row int) bool {
	col, ok := findColumn(t, "assessed")
	if !ok {
		return true
	}
	cell, _ := t.Cell(row, col)
	if cell.Missing {
		return true
	}
	return !strings.EqualFold(strings.TrimSpace(cell.Value), "no")
}

// ParseRow turns one indicator table row into a typed IndicatorRow. The
// ordinal is the row's index in the unfiltered source table; on a query
// view it differs from row, and it is what keys the row's artifacts. The
// header fields are collected per configured attribute: every column
// whose name contains the attribute contributes, joined with " - ".
//
// A row with absent or non-numeric bin boundaries is unusable; the error
// is a DataValidationError carrying enough context to find the source
// cell.
func ParseRow(t *tabular.Table, row, ordinal int, program string, headerAttribs, binLabels []string) (domain.IndicatorRow, error) {
	ir := domain.IndicatorRow{
		Program:    program,
		Ordinal:    ordinal,
		Indicator:  fuzzyCell(t, row, "indicator"),
		Level:      fuzzyCell(t, row, "level"),
		Course:     fuzzyCell(t, row, "course"),
		Assessment: fuzzyCell(t, row, "assessment"),
	}

	verr := &domain.DataValidationError{
		Program:    program,
		Course:     ir.Course,
		Assessment: ir.Assessment,
	}

	binsCol, ok := findColumn(t, "bins")
	if !ok {
		verr.Detail = "indicator table has no bins column"
		return ir, verr
	}
	cell, _ := t.Cell(row, binsCol)
	raw := strings.TrimSpace(cell.Value)
	if cell.Missing || binSentinels[raw] {
		verr.Detail = "no bins defined"
		return ir, verr
	}

	var bounds []float64
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			verr.Detail = "non-numeric bin boundary " + strings.TrimSpace(part)
			return ir, verr
		}
		bounds = append(bounds, v)
	}
	bins, err := domain.NewBinSet(bounds, binLabels)
	if err != nil {
		verr.Detail = err.Error()
		return ir, verr
	}
	ir.Bins = bins

	for _, attrib := range headerAttribs {
		var parts []string
		for _, name := range t.ColumnNames() {
			if !strings.Contains(name, attrib) {
				continue
			}
			c, _ := t.Cell(row, name)
			if !c.Missing {
				parts = append(parts, c.Value)
			}
		}
		ir.Header = append(ir.Header, domain.HeaderField{
			Key:   attrib,
			Value: strings.Join(parts, " - "),
		})
	}
	return ir, nil
}

// fuzzyCell fetches the row's value from the first column matching key,
// or "" when neither column nor value exists.
func fuzzyCell(t *tabular.Table, row int, key string) string {
	col, ok := findColumn(t, key)
	if !ok {
		return ""
	}
	cell, _ := t.Cell(row, col)
	if cell.Missing {
		return ""
	}
	return strings.TrimSpace(cell.Value)
}
