package textfmt

import (
	"strings"
	"testing"

	"gareport/internal/domain"
)

func mustBinSet(t *testing.T, boundaries []float64, labels []string) domain.BinSet {
	t.Helper()
	set, err := domain.NewBinSet(boundaries, labels)
	if err != nil {
		t.Fatalf("NewBinSet(%v) failed: %v", boundaries, err)
	}
	return set
}

func TestFormatBinRangesStandard(t *testing.T) {
	set := mustBinSet(t, []float64{50, 60, 80, 100}, domain.DefaultBinLabels)

	got := FormatBinRanges(set)
	want := "Bin ranges: marks out of 100\n" +
		"<50: Below Expectations   " +
		"50-59: Marginally Meets Expectations   " +
		"60-79: Meets Expectations   " +
		"80-100: Exceeds Expectations"
	if got != want {
		t.Fatalf("FormatBinRanges = %q, want %q", got, want)
	}
}

func TestFormatBinRangesNonZeroFloor(t *testing.T) {
	set := mustBinSet(t, []float64{40, 50, 60, 80, 100}, domain.DefaultBinLabels)

	got := FormatBinRanges(set)
	if !strings.HasPrefix(got, "Bin ranges: marks out of 100\n40-49: Below Expectations") {
		t.Fatalf("expected an explicit first range for a non-zero floor, got %q", got)
	}
}

func TestFormatBinRangesCoOp(t *testing.T) {
	labels := []string{"Unsatisfactory", "Fair", "Good", "Excellent"}
	set := mustBinSet(t, []float64{2, 3, 4, 5}, labels)
	if set.Kind != domain.CoOpBins {
		t.Fatalf("expected co-op bins, got %v", set.Kind)
	}

	got := FormatBinRanges(set)
	want := "Bin ranges: scored out of 5\n" +
		"≤2: Unsatisfactory   3: Fair   4: Good   5: Excellent"
	if got != want {
		t.Fatalf("FormatBinRanges = %q, want %q", got, want)
	}
}

func TestFormatPercents(t *testing.T) {
	got := FormatPercents([]float64{12.4, 0, 99.6})
	want := []string{"12%", "0%", "100%"}
	if len(got) != len(want) {
		t.Fatalf("FormatPercents returned %d labels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FormatPercents[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCohortColumnLabel(t *testing.T) {
	if got := CohortColumnLabel(2022, 31); got != "CO2022: 31 STUDENTS" {
		t.Fatalf("CohortColumnLabel = %q", got)
	}
}

func TestFormatAnnotationText(t *testing.T) {
	fields := []domain.HeaderField{
		{Key: "Graduate Attribute", Value: "Knowledge Base"},
		{Key: "Course", Value: "ENGI 1040 - Circuits"},
	}

	labels, descriptions, title := FormatAnnotationText(fields)
	if title != "Knowledge Base" {
		t.Fatalf("title = %q, want %q", title, "Knowledge Base")
	}

	labelLines := strings.Split(labels, "\n")
	descLines := strings.Split(descriptions, "\n")
	if len(labelLines) != len(descLines) {
		t.Fatalf("column line counts differ: %d labels, %d descriptions", len(labelLines), len(descLines))
	}
	if labelLines[len(labelLines)-1] != "Course:" {
		t.Fatalf("last label line = %q, want %q", labelLines[len(labelLines)-1], "Course:")
	}
	if descLines[len(descLines)-1] != "ENGI 1040 - Circuits" {
		t.Fatalf("last description line = %q", descLines[len(descLines)-1])
	}
	// The attribute promoted to the title must not repeat as body text.
	if strings.Contains(descriptions, "Knowledge Base") {
		t.Fatalf("title text leaked into the descriptions: %q", descriptions)
	}
}

func TestWrapBreaksOnWordBoundaries(t *testing.T) {
	lines := wrap("Graduate Attribute:", 12)
	if len(lines) != 2 || lines[0] != "Graduate" || lines[1] != "Attribute:" {
		t.Fatalf("wrap returned %v", lines)
	}

	if lines := wrap("", 12); len(lines) != 1 || lines[0] != "" {
		t.Fatalf("wrap of empty text returned %v", lines)
	}

	// A word longer than the width gets its own line rather than a split.
	lines = wrap("a extraordinarily long", 10)
	if len(lines) != 3 || lines[1] != "extraordinarily" {
		t.Fatalf("wrap of oversized word returned %v", lines)
	}
}
