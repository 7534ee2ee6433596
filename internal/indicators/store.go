// Package indicators loads per-program indicator tables and answers
// partial-match queries against them.
package indicators

import (
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gareport/internal/domain"
	"gareport/internal/tabular"
)

// Filter narrows a query: Key is matched case-insensitively as a
// substring against column names, Values form a regex alternation matched
// as substrings against cell content.
type Filter struct {
	Key    string
	Values []string
}

// Store holds the loaded indicator tables, one per program, plus the
// shared unique-course override table.
type Store struct {
	programs  []string
	dir       string
	tab       tabular.Store
	tables    map[string]*tabular.Table
	overrides map[string]int

	// lastQuery is the most recent query view. It is owned by the
	// caller between queries; nothing else reads it.
	lastQuery *tabular.Table
}

// Load reads the indicator table of every requested program. A missing
// table is not fatal: the program is reported and left out of the set.
func Load(programs []string, indicatorsDir, uniqueCoursesFile string, tab tabular.Store) *Store {
	s := &Store{
		programs:  append([]string(nil), programs...),
		dir:       indicatorsDir,
		tab:       tab,
		tables:    make(map[string]*tabular.Table),
		overrides: make(map[string]int),
	}
	for _, p := range programs {
		path := s.indicatorPath(p)
		t, err := tab.ReadTable(path)
		if err != nil {
			log.Printf("The file %s was not found, therefore no indicators were loaded for %s: %v", path, p, err)
			continue
		}
		s.tables[p] = t
	}
	s.loadOverrides(uniqueCoursesFile)
	return s
}

func (s *Store) indicatorPath(program string) string {
	return filepath.Join(s.dir, program+" Indicators.xlsx")
}

// loadOverrides reads the unique-course table (course, term offered). A
// missing file simply means every course uses the default inference.
func (s *Store) loadOverrides(path string) {
	if path == "" {
		return
	}
	t, err := s.tab.ReadTable(path)
	if err != nil {
		log.Printf("No unique course overrides loaded from %s: %v", path, err)
		return
	}
	courseCol, ok1 := findColumn(t, "course")
	termCol, ok2 := findColumn(t, "term")
	if !ok1 || !ok2 {
		log.Printf("Unique course table %s is missing a course or term column, ignoring it", path)
		return
	}
	for i := 0; i < t.RowCount(); i++ {
		course, _ := t.Cell(i, courseCol)
		term, _ := t.Cell(i, termCol)
		if course.Missing || term.Missing {
			continue
		}
		key := strings.TrimSpace(course.Value)
		n, err := strconv.Atoi(strings.TrimSpace(term.Value))
		if err != nil {
			log.Printf("Unique course row %d has non-integer term %q, skipping", i, term.Value)
			continue
		}
		if _, dup := s.overrides[key]; dup {
			log.Printf("Duplicate unique course override for %s, keeping the first", key)
			continue
		}
		s.overrides[key] = n
	}
}

// TermOverride reports an explicit term-offered override for a course.
func (s *Store) TermOverride(course string) (int, bool) {
	n, ok := s.overrides[strings.TrimSpace(course)]
	return n, ok
}

// Programs returns the programs the store was asked to load, whether or
// not their tables were found.
func (s *Store) Programs() []string { return s.programs }

// Query filters a program's indicator table. Filters apply iteratively:
// each key narrows the rows surviving the previous keys. Row order always
// matches the underlying table.
func (s *Store) Query(program string, filters []Filter) (*tabular.Table, error) {
	view, _, err := s.QueryRows(program, filters)
	return view, err
}

// QueryRows is Query plus each surviving row's index in the unfiltered
// source table, so rows keep a stable identity no matter which whitelist
// produced the view.
func (s *Store) QueryRows(program string, filters []Filter) (*tabular.Table, []int, error) {
	t, ok := s.tables[program]
	if !ok {
		// Cache fill: the table may not have been part of the initial
		// load set.
		log.Printf("Indicators for %s not loaded yet, loading now", program)
		loaded, err := s.tab.ReadTable(s.indicatorPath(program))
		if err != nil {
			return nil, nil, &domain.ConfigGapError{
				What:   "indicators for " + program,
				Detail: err.Error(),
			}
		}
		s.tables[program] = loaded
		t = loaded
	}

	view := t
	sourceRows := make([]int, view.RowCount())
	for i := range sourceRows {
		sourceRows[i] = i
	}
	for _, f := range filters {
		col, ok := findColumn(view, f.Key)
		if !ok {
			return nil, nil, &domain.ConfigGapError{
				What:   "query key " + f.Key,
				Detail: fmt.Sprintf("no column of %s indicators matches it", program),
			}
		}
		pat, err := alternation(f.Values)
		if err != nil {
			return nil, nil, fmt.Errorf("query key %s: %w", f.Key, err)
		}
		var keep []int
		for i := 0; i < view.RowCount(); i++ {
			cell, _ := view.Cell(i, col)
			if !cell.Missing && pat.MatchString(cell.Value) {
				keep = append(keep, i)
			}
		}
		view = view.SelectRows(keep)
		mapped := make([]int, len(keep))
		for j, idx := range keep {
			mapped[j] = sourceRows[idx]
		}
		sourceRows = mapped
	}

	s.lastQuery = view
	return view, sourceRows, nil
}

// findColumn locates the first column whose name contains key as a
// case-insensitive substring.
func findColumn(t *tabular.Table, key string) (string, bool) {
	lower := strings.ToLower(key)
	for _, name := range t.ColumnNames() {
		if strings.Contains(strings.ToLower(name), lower) {
			return name, true
		}
	}
	return "", false
}

// alternation compiles filter values into one case-insensitive substring
// pattern. Values are quoted: a course named "C++ Lab" is a literal, not
// a regex.
func alternation(values []string) (*regexp.Regexp, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty value list")
	}
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, regexp.QuoteMeta(v))
	}
	return regexp.Compile("(?i)(" + strings.Join(quoted, "|") + ")")
}
