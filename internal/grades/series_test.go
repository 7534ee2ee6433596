package grades

import (
	"errors"
	"testing"

	"gareport/internal/domain"
	"gareport/internal/tabular"
)

func TestColumnsToSeries(t *testing.T) {
	table := tabular.NewTable(
		[]string{"2017", "CO2021: 2 STUDENTS"},
		[][]string{
			{"85", "60"},
			{"64", "72"},
			{"91", ""},
		},
	)

	series, err := ColumnsToSeries(table, "ENCM", "ENGI1040", "Circuits", 1, "Core", "grades.xlsx")
	if err != nil {
		t.Fatalf("ColumnsToSeries failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}

	// A raw year header maps to the graduating cohort; the count is the
	// true size, not the padded column length.
	if series[0].Name != "CO2022: 3 STUDENTS" {
		t.Fatalf("first series name = %q", series[0].Name)
	}
	if series[0].TrueSize() != 3 {
		t.Fatalf("first series TrueSize = %d, want 3", series[0].TrueSize())
	}

	// A header already carrying a cohort label passes through, with the
	// padding cell stripped.
	if series[1].Name != "CO2021: 2 STUDENTS" {
		t.Fatalf("second series name = %q", series[1].Name)
	}
	if series[1].TrueSize() != 2 {
		t.Fatalf("second series TrueSize = %d, want 2", series[1].TrueSize())
	}

	if series[0].SourceDir != "Core" || series[0].SourceFile != "grades.xlsx" {
		t.Fatalf("series lost its source: %+v", series[0])
	}
}

func TestColumnsToSeriesYearWithSemesterDigits(t *testing.T) {
	table := tabular.NewTable(
		[]string{"201703"},
		[][]string{{"85"}},
	)

	series, err := ColumnsToSeries(table, "ENCM", "ENGI1040", "Circuits", 1, "Core", "grades.xlsx")
	if err != nil {
		t.Fatalf("ColumnsToSeries failed: %v", err)
	}
	if series[0].Name != "CO2022: 1 STUDENTS" {
		t.Fatalf("series name = %q", series[0].Name)
	}
}

func TestColumnsToSeriesRejectsTextualMarks(t *testing.T) {
	table := tabular.NewTable(
		[]string{"2017"},
		[][]string{{"85"}, {"absent"}},
	)

	_, err := ColumnsToSeries(table, "ENCM", "ENGI1040", "Circuits", 1, "Core", "grades.xlsx")
	var verr *domain.DataValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a DataValidationError, got %v", err)
	}
	if verr.Series != "2017" {
		t.Fatalf("error should name the series, got %q", verr.Series)
	}
}

func TestColumnsToSeriesKeepsNDAPlaceholders(t *testing.T) {
	table := tabular.NewTable(
		[]string{"2017"},
		[][]string{{"85"}, {"-1"}},
	)

	series, err := ColumnsToSeries(table, "ENCM", "ENGI1040", "Circuits", 1, "Core", "grades.xlsx")
	if err != nil {
		t.Fatalf("ColumnsToSeries failed: %v", err)
	}
	if series[0].TrueSize() != 2 {
		t.Fatalf("-1 placeholders must count toward the true size, got %d", series[0].TrueSize())
	}
}
