package grades

import (
	"strconv"
	"strings"

	"gareport/internal/cohort"
	"gareport/internal/domain"
	"gareport/internal/tabular"
	"gareport/internal/textfmt"
)

// ColumnsToSeries converts a grade table into cohort-labeled series, one
// per column. Column names are either raw academic year/semester values
// (2017, 201703), which get mapped to a cohort, or labels that already
// carry the cohort and pass through untouched.
//
// Padding cells are stripped, so each series' length is its true size. A
// textual entry inside an otherwise numeric column invalidates the whole
// series with a DataValidationError; marks are never coerced.
func ColumnsToSeries(t *tabular.Table, program, course, assessment string, termOffered int, sourceDir, sourceFile string) ([]domain.GradeSeries, error) {
	var out []domain.GradeSeries
	for _, col := range t.Columns {
		values := make([]float64, 0, len(col.Cells))
		for _, cell := range col.Cells {
			if cell.Missing {
				continue
			}
			v, err := cell.Float()
			if err != nil {
				return nil, &domain.DataValidationError{
					Program:    program,
					Course:     course,
					Assessment: assessment,
					Series:     col.Name,
					Detail:     err.Error(),
				}
			}
			values = append(values, v)
		}
		out = append(out, domain.GradeSeries{
			Name:       seriesName(col.Name, termOffered, len(values)),
			Values:     values,
			SourceDir:  sourceDir,
			SourceFile: sourceFile,
		})
	}
	return out, nil
}

// seriesName maps a numeric column header to "CO<cohort>: <n> STUDENTS".
// Non-numeric headers already name their cohort.
func seriesName(column string, termOffered, trueSize int) string {
	year, err := strconv.Atoi(strings.TrimSpace(column))
	if err != nil {
		return column
	}
	co, err := cohort.ForYear(year, termOffered)
	if err != nil {
		return column
	}
	return textfmt.CohortColumnLabel(co, trueSize)
}
