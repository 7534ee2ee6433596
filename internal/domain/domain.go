package domain

import (
	"errors"
	"fmt"
	"sort"
)

// BinKind discriminates percentage-scale bins from the 1-5 co-op scale.
// The kind is decided once when the bin boundaries are parsed and carried
// with the boundaries from then on.
type BinKind int

const (
	StandardBins BinKind = iota
	CoOpBins
)

func (k BinKind) String() string {
	if k == CoOpBins {
		return "co-op"
	}
	return "standard"
}

// BinSet holds ordered bin boundaries (upper edges of each score category)
// together with the category labels.
type BinSet struct {
	Kind       BinKind
	Boundaries []float64
	Labels     []string
}

// DefaultBinLabels are the four expectation categories used when the
// configuration does not override them.
var DefaultBinLabels = []string{
	"Below Expectations",
	"Marginally Meets Expectations",
	"Meets Expectations",
	"Exceeds Expectations",
}

// NewBinSet validates boundaries and tags the set as standard or co-op.
// A 4-value list gets 0 prepended to anchor the lowest-bin floor. The
// co-op scale is recognized by a gap of exactly 1 between the last two
// boundaries.
func NewBinSet(boundaries []float64, labels []string) (BinSet, error) {
	if len(boundaries) == 4 {
		boundaries = append([]float64{0}, boundaries...)
	}
	if len(boundaries) < 5 {
		return BinSet{}, fmt.Errorf("need at least 4 bin boundaries, got %d", len(boundaries))
	}
	if !sort.Float64sAreSorted(boundaries) {
		return BinSet{}, fmt.Errorf("bin boundaries %v are not ascending", boundaries)
	}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i] == boundaries[i-1] {
			return BinSet{}, fmt.Errorf("bin boundaries %v contain a duplicate", boundaries)
		}
	}
	if len(labels) != len(boundaries)-1 {
		return BinSet{}, fmt.Errorf("have %d bin labels for %d categories", len(labels), len(boundaries)-1)
	}
	kind := StandardBins
	n := len(boundaries)
	if boundaries[n-1]-boundaries[n-2] == 1 {
		kind = CoOpBins
	}
	set := BinSet{
		Kind:       kind,
		Boundaries: append([]float64(nil), boundaries...),
		Labels:     append([]string(nil), labels...),
	}
	return set, nil
}

// HeaderField is one key/value pair extracted from an indicator row for
// the report header, in configured order.
type HeaderField struct {
	Key   string
	Value string
}

// IndicatorRow is one parsed row of a program's indicator table.
type IndicatorRow struct {
	Program    string
	Ordinal    int // row position in the source table, for artifact keys
	Indicator  string
	Level      string
	Course     string
	Assessment string
	Bins       BinSet
	Header     []HeaderField
}

// GradeSeries is one cohort's marks for a single assessment occurrence.
// Values has missing markers already stripped, so len(Values) is the true
// size. NDA placeholders (-1) are kept; they land in the below-floor bin.
type GradeSeries struct {
	Name       string
	Values     []float64
	SourceDir  string
	SourceFile string
}

// TrueSize is the number of real entries in the series, excluding the
// padding the tabular store appends to short columns.
func (s GradeSeries) TrueSize() int { return len(s.Values) }

// SearchResult maps each searched directory to its matched filenames.
// Key order is the caller's priority order; a present key with an empty
// list means "searched, nothing found".
type SearchResult struct {
	dirs    []string
	matches map[string][]string
}

func NewSearchResult() *SearchResult {
	return &SearchResult{matches: make(map[string][]string)}
}

func (r *SearchResult) Add(dir string, files []string) {
	if _, ok := r.matches[dir]; !ok {
		r.dirs = append(r.dirs, dir)
	}
	r.matches[dir] = append(r.matches[dir], files...)
}

// Dirs returns the searched directories in priority order.
func (r *SearchResult) Dirs() []string { return r.dirs }

func (r *SearchResult) Matches(dir string) []string { return r.matches[dir] }

// FirstNonEmpty returns the highest-priority directory with a match.
func (r *SearchResult) FirstNonEmpty() (string, []string, bool) {
	for _, d := range r.dirs {
		if len(r.matches[d]) > 0 {
			return d, r.matches[d], true
		}
	}
	return "", nil, false
}

// Empty reports whether no directory produced a match.
func (r *SearchResult) Empty() bool {
	_, _, ok := r.FirstNonEmpty()
	return !ok
}

// ArtifactKey identifies one output artifact. The tuple is deterministic
// and collision-resistant across a run.
type ArtifactKey struct {
	Program    string
	RowOrdinal int
	Indicator  string
	Level      string
	Location   string // directory the grade data was resolved from
}

func (k ArtifactKey) String() string {
	return fmt.Sprintf("%s/%d/%s/%s/%s", k.Program, k.RowOrdinal, k.Indicator, k.Level, k.Location)
}

// MissingData is one entry for the missing-data log.
type MissingData struct {
	Program    string
	Course     string
	Assessment string
	Indicator  string
	Level      string
	Reason     string
}

// DataValidationError marks a spreadsheet cell or series that cannot be
// used as-is. The row or series is skipped and logged; the run continues.
type DataValidationError struct {
	Program    string
	Course     string
	Assessment string
	Series     string
	Detail     string
}

func (e *DataValidationError) Error() string {
	msg := fmt.Sprintf("invalid data for %s %s %s", e.Program, e.Course, e.Assessment)
	if e.Series != "" {
		msg += fmt.Sprintf(" series %q", e.Series)
	}
	return msg + ": " + e.Detail
}

// ConfigGapError marks a configuration hole (missing indicator file,
// filter key with no matching column). Logged, processing continues.
type ConfigGapError struct {
	What   string
	Detail string
}

func (e *ConfigGapError) Error() string {
	return fmt.Sprintf("configuration gap: %s: %s", e.What, e.Detail)
}

// ErrUnsupportedGrouping aborts a run outright: the requested plotting
// mode has no implementation and partial output would be misleading.
var ErrUnsupportedGrouping = errors.New("grades can only be plotted by year")
