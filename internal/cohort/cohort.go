// Package cohort maps academic years, semesters and course terms onto the
// normalized graduating-cohort labels used across all reports.
package cohort

import (
	"fmt"
	"unicode"
)

// termOffsets converts the academic term a course is normally taken in
// (1-8) to the number of years until that cohort graduates.
var termOffsets = map[int]int{
	1: 5, 2: 5,
	3: 4, 4: 4,
	5: 3,
	6: 2, 7: 2,
	8: 1,
}

// TermOffered extracts the academic term a course is taken in from its
// identifier: the first digit in the course number. An override, when
// present, wins over the derivation.
func TermOffered(course string, override int, hasOverride bool) (int, error) {
	if hasOverride {
		return override, nil
	}
	for _, r := range course {
		if unicode.IsDigit(r) {
			return int(r - '0'), nil
		}
	}
	return 0, fmt.Errorf("no digit in course identifier %q", course)
}

// ForYear converts a year (optionally with trailing semester digits, e.g.
// 201703) and the term a course is offered into the graduating cohort.
//
// A term of 0 marks a non-standard course whose columns already carry the
// cohort; the normalized year passes through unchanged.
func ForYear(yearOrYearSemester, termOffered int) (int, error) {
	if yearOrYearSemester < 0 {
		return 0, fmt.Errorf("invalid year %d", yearOrYearSemester)
	}
	year := yearOrYearSemester
	for year > 9999 {
		year /= 10
	}
	if termOffered == 0 {
		return year, nil
	}
	offset, ok := termOffsets[termOffered]
	if !ok {
		return 0, fmt.Errorf("term offered %d is outside 1-8", termOffered)
	}
	return year + offset, nil
}

// ForCoop converts a year+semester value (e.g. 201701) and a work-term
// number into the graduating cohort. Each (year, semester) has two valid
// candidate cohorts; the work-term number picks between them: the first
// (4 - semester) work terms map to year+semester+2, the rest to two years
// earlier.
func ForCoop(yearAndSemester, workTerm int) (int, error) {
	if workTerm < 1 || workTerm > 4 {
		return 0, fmt.Errorf("work term %d is outside 1-4", workTerm)
	}
	year := yearAndSemester / 100
	semester := yearAndSemester % 10
	if semester < 1 || semester > 3 {
		return 0, fmt.Errorf("semester %d in %d is outside 1-3", semester, yearAndSemester)
	}
	firstCohort := year + semester + 2
	if workTerm <= 4-semester {
		return firstCohort, nil
	}
	return firstCohort - 2, nil
}
