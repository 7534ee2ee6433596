// Package textfmt renders bin ranges, percentage labels and report header
// text. The output is plain text; the renderer decides presentation.
package textfmt

import (
	"fmt"
	"strings"

	"gareport/internal/domain"
)

const (
	labelWrapWidth       = 12
	descriptionWrapWidth = 60
)

// FormatBinRanges describes a bin set as human-readable ranges. Standard
// percentage bins render half-open mark ranges; the co-op 1-5 scale gets
// its own path since off-by-one drift is visible on small integers.
func FormatBinRanges(set domain.BinSet) string {
	if set.Kind == domain.CoOpBins {
		return formatCoOpBinRanges(set)
	}

	bins := set.Boundaries
	labels := set.Labels
	size := len(labels)

	var b strings.Builder
	fmt.Fprintf(&b, "Bin ranges: marks out of %.0f\n", bins[size])
	// A floor at or below zero means "anything under the first passing
	// boundary", not a literal zero-to-X range.
	if bins[0] <= 0 {
		fmt.Fprintf(&b, "<%.0f: %s   ", bins[1], labels[0])
	} else {
		fmt.Fprintf(&b, "%.0f-%.0f: %s   ", bins[0], bins[1]-1, labels[0])
	}
	for i := 1; i < size-1; i++ {
		fmt.Fprintf(&b, "%.0f-%.0f: %s   ", bins[i], bins[i+1]-1, labels[i])
	}
	fmt.Fprintf(&b, "%.0f-%.0f: %s", bins[size-1], bins[size], labels[size-1])
	return b.String()
}

func formatCoOpBinRanges(set domain.BinSet) string {
	bins := set.Boundaries
	labels := set.Labels

	var b strings.Builder
	fmt.Fprintf(&b, "Bin ranges: scored out of %.0f\n", bins[len(labels)])
	fmt.Fprintf(&b, "≤%.0f: %s", bins[1], labels[0])
	for i := 1; i < len(labels); i++ {
		fmt.Fprintf(&b, "   %.0f: %s", bins[i+1], labels[i])
	}
	return b.String()
}

// FormatPercents renders values as whole-number percentage labels for the
// bars of a histogram.
func FormatPercents(values []float64) []string {
	formatted := make([]string, 0, len(values))
	for _, v := range values {
		formatted = append(formatted, fmt.Sprintf("%.0f%%", v))
	}
	return formatted
}

// CohortColumnLabel names a plotted series by cohort and class size.
func CohortColumnLabel(cohort, students int) string {
	return fmt.Sprintf("CO%d: %d STUDENTS", cohort, students)
}

// FormatAnnotationText lays the header fields out as two aligned columns
// of wrapped text plus the graduate attribute as a separate title line.
// Lines are newline-separated; both columns always hold the same number
// of lines so the renderer can place them side by side.
func FormatAnnotationText(fields []domain.HeaderField) (labels, descriptions, title string) {
	var labelLines, descLines []string
	for _, f := range fields {
		if f.Key == "Graduate Attribute" {
			title = f.Value
			f.Value = " "
		}
		labelLines = append(labelLines, wrap(f.Key+":", labelWrapWidth)...)
		descLines = append(descLines, wrap(f.Value, descriptionWrapWidth)...)

		for len(labelLines) < len(descLines) {
			labelLines = append(labelLines, " ")
		}
		for len(descLines) < len(labelLines) {
			descLines = append(descLines, " ")
		}
	}
	return strings.Join(labelLines, "\n"), strings.Join(descLines, "\n"), title
}

// wrap breaks text into lines of at most width characters on word
// boundaries. Words longer than the width get a line of their own.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
