// Package report drives the whole pipeline: query indicator rows,
// resolve their grade files, aggregate histograms and hand datasets to
// the renderer. Per-row failures never abort a program's loop and
// per-program failures never abort the run.
package report

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gareport/internal/cohort"
	"gareport/internal/config"
	"gareport/internal/domain"
	"gareport/internal/grades"
	"gareport/internal/histogram"
	"gareport/internal/indicators"
	"gareport/internal/render"
	"gareport/internal/tabular"
	"gareport/internal/textfmt"
)

type Generator struct {
	cfg      config.Config
	store    *indicators.Store
	tab      tabular.Store
	index    *grades.FileIndex
	renderer render.Renderer
	db       *sql.DB // optional run catalog
}

// RunResult tracks separate counters for each outcome of a run.
type RunResult struct {
	RunID     string
	Artifacts int
	Missing   int
	Evicted   int
	Started   time.Time
	Finished  time.Time
}

func (r RunResult) Summary() string {
	return fmt.Sprintf("run %s: %d artifacts, %d missing-data entries, %d evicted series in %s",
		r.RunID, r.Artifacts, r.Missing, r.Evicted, r.Finished.Sub(r.Started).Round(time.Millisecond))
}

// NewGenerator loads the indicator store for the configured programs and
// builds the grade file index.
func NewGenerator(cfg config.Config, tab tabular.Store, renderer render.Renderer, db *sql.DB) *Generator {
	return &Generator{
		cfg:      cfg,
		store:    indicators.Load(cfg.Programs, cfg.IndicatorsDir, cfg.UniqueCoursesFile, tab),
		tab:      tab,
		index:    grades.NewFileIndex(cfg.GradesDir, cfg.GradeFileExt),
		renderer: renderer,
		db:       db,
	}
}

// NewGeneratorWithIndex is NewGenerator with an injected file index, for
// tests running against fixture listings.
func NewGeneratorWithIndex(cfg config.Config, tab tabular.Store, renderer render.Renderer, db *sql.DB, index *grades.FileIndex) *Generator {
	g := NewGenerator(cfg, tab, renderer, db)
	g.index = index
	return g
}

// Run generates reports for every indicator row matching the whitelist
// filters. Programs defaults to the configured list when empty.
func (g *Generator) Run(programs []string, filters []indicators.Filter) (RunResult, error) {
	if g.cfg.PlotGradesBy != "year" {
		// Structurally unsupported request: no partial-success semantics.
		return RunResult{}, fmt.Errorf("plot_grades_by=%s: %w", g.cfg.PlotGradesBy, domain.ErrUnsupportedGrouping)
	}

	result := RunResult{RunID: uuid.NewString(), Started: time.Now()}
	if len(programs) == 0 {
		programs = g.store.Programs()
	}

	missing, err := OpenMissingDataLog(g.cfg.MissingDataLog)
	if err != nil {
		return result, err
	}
	defer func() {
		if cerr := missing.Close(); cerr != nil {
			log.Printf("Error closing missing-data log: %v", cerr)
		}
	}()

	if g.db != nil {
		if err := insertRun(g.db, result.RunID, g.cfg.Name, result.Started); err != nil {
			return result, fmt.Errorf("record run start: %w", err)
		}
	}
	log.Printf("Run %s started for programs %s", result.RunID, strings.Join(programs, ", "))

	for _, program := range programs {
		g.runProgram(program, filters, missing, &result)
	}

	result.Finished = time.Now()
	result.Missing = missing.Count()
	if g.db != nil {
		if err := finishRun(g.db, result); err != nil {
			log.Printf("Error recording run finish: %v", err)
		}
	}
	log.Print(result.Summary())
	return result, nil
}

func (g *Generator) runProgram(program string, filters []indicators.Filter, missing *MissingDataLog, result *RunResult) {
	view, sourceRows, err := g.store.QueryRows(program, filters)
	if err != nil {
		var gap *domain.ConfigGapError
		if errors.As(err, &gap) {
			log.Printf("Skipping %s: %v", program, err)
			return
		}
		log.Printf("Query for %s failed: %v", program, err)
		return
	}

	for i := 0; i < view.RowCount(); i++ {
		if !indicators.RowAssessed(view, i) {
			continue
		}
		row, err := indicators.ParseRow(view, i, sourceRows[i], program, g.cfg.HeaderAttribs, g.cfg.BinLabels)
		if err != nil {
			g.reportMissing(missing, result.RunID, domain.MissingData{
				Program:    program,
				Course:     row.Course,
				Assessment: row.Assessment,
				Indicator:  row.Indicator,
				Level:      row.Level,
				Reason:     err.Error(),
			})
			continue
		}
		g.runRow(row, missing, result)
	}
}

// runRow resolves one indicator row's grade files and renders a dataset
// per resolved location.
func (g *Generator) runRow(row domain.IndicatorRow, missing *MissingDataLog, result *RunResult) {
	searchDirs := append([]string{row.Program}, g.cfg.GradeBackupDirs...)
	found := g.index.DirectorySearch(row.Course, row.Assessment, searchDirs)

	if found.Empty() {
		// A miss is a valid outcome, not an exception; it just has to
		// be reported.
		g.reportMissing(missing, result.RunID, missingFor(row, "no grade file found in any searched directory"))
		return
	}

	override, hasOverride := g.store.TermOverride(row.Course)
	term, err := cohort.TermOffered(row.Course, override, hasOverride)
	if err != nil {
		g.reportMissing(missing, result.RunID, missingFor(row, err.Error()))
		return
	}

	ownEmpty := len(found.Matches(row.Program)) == 0
	for _, dir := range found.Dirs() {
		for n, file := range found.Matches(dir) {
			ds, ok := g.buildDataset(row, term, dir, file, missing, result)
			if !ok {
				continue
			}
			path := g.artifactPath(row, dir, n)
			if err := g.renderer.Render(ds, path); err != nil {
				log.Printf("Error rendering %s: %v", ds.Key, err)
				continue
			}
			result.Artifacts++
			if g.db != nil {
				if err := insertArtifact(g.db, result.RunID, ds.Key, path); err != nil {
					log.Printf("Error cataloging artifact %s: %v", ds.Key, err)
				}
			}
			if ownEmpty && dir != row.Program {
				// The program's own folder had nothing, so leave a
				// courtesy copy under the program's name next to the
				// fallback result.
				copyPath := g.artifactPath(row, row.Program, n)
				if err := g.renderer.Render(ds, copyPath); err != nil {
					log.Printf("Error writing courtesy copy for %s: %v", ds.Key, err)
				}
				ownEmpty = false
			}
		}
	}
}

func (g *Generator) buildDataset(row domain.IndicatorRow, term int, dir, file string, missing *MissingDataLog, result *RunResult) (render.Dataset, bool) {
	path := g.index.Path(dir, file)
	table, err := g.tab.ReadTable(path)
	if err != nil {
		g.reportMissing(missing, result.RunID, missingFor(row, fmt.Sprintf("could not open %s: %v", file, err)))
		return render.Dataset{}, false
	}

	series, err := grades.ColumnsToSeries(table, row.Program, row.Course, row.Assessment, term, dir, file)
	if err != nil {
		g.reportMissing(missing, result.RunID, missingFor(row, err.Error()))
		return render.Dataset{}, false
	}
	for _, s := range series {
		if s.TrueSize() == 0 {
			g.reportMissing(missing, result.RunID, missingFor(row, fmt.Sprintf("series %q in %s has no entries", s.Name, file)))
		}
	}

	binned, evicted := histogram.Aggregate(series, row.Bins, histogram.Options{
		ShowNDA:      g.cfg.ShowNDA,
		NDAThreshold: g.cfg.NDAThreshold,
		MaxSeries:    g.cfg.MaxPlots,
	})
	for _, name := range evicted {
		result.Evicted++
		g.reportMissing(missing, result.RunID, missingFor(row, fmt.Sprintf("series %q evicted from %s, over the %d-series limit", name, file, g.cfg.MaxPlots)))
	}

	ds := render.Dataset{
		Key: domain.ArtifactKey{
			Program:    row.Program,
			RowOrdinal: row.Ordinal,
			Indicator:  row.Indicator,
			Level:      row.Level,
			Location:   dir,
		},
		ShowLegend: g.cfg.AddLegend,
		Data:       binned,
	}
	if g.cfg.AddTitle {
		ds.Title = g.cfg.GraphTitle
	}
	if g.cfg.AddBinRanges {
		ds.BinRanges = textfmt.FormatBinRanges(row.Bins)
	}
	if g.cfg.AddPercents {
		for _, s := range binned.Series {
			ds.PercentLabels = append(ds.PercentLabels, textfmt.FormatPercents(s.Percents))
		}
	}
	ds.HeaderLabels, ds.HeaderDescriptions, ds.AttributeTitle = textfmt.FormatAnnotationText(row.Header)
	return ds, true
}

// artifactPath builds a deterministic, collision-resistant output path:
// program, indicator prefix, level initial, row ordinal, config name and
// resolved location all contribute.
func (g *Generator) artifactPath(row domain.IndicatorRow, location string, fileOrdinal int) string {
	prefix := strings.TrimSpace(strings.SplitN(row.Indicator, "-", 2)[0])
	level := row.Level
	if level != "" {
		level = level[:1]
	}
	name := fmt.Sprintf("%s %s-%s r%02d Report - %s - %s", row.Program, prefix, level, row.Ordinal, g.cfg.Name, location)
	if fileOrdinal > 0 {
		name = fmt.Sprintf("%s (%d)", name, fileOrdinal+1)
	}
	return filepath.Join(g.cfg.HistogramsDir, name+".xlsx")
}

func missingFor(row domain.IndicatorRow, reason string) domain.MissingData {
	return domain.MissingData{
		Program:    row.Program,
		Course:     row.Course,
		Assessment: row.Assessment,
		Indicator:  row.Indicator,
		Level:      row.Level,
		Reason:     reason,
	}
}

func (g *Generator) reportMissing(missing *MissingDataLog, runID string, md domain.MissingData) {
	log.Printf("Missing data for %s %s (%s %s): %s", md.Program, md.Course, md.Indicator, md.Level, md.Reason)
	if err := missing.Append(md); err != nil {
		log.Printf("Error appending missing-data log: %v", err)
	}
	if g.db != nil {
		if err := insertMissing(g.db, runID, md); err != nil {
			log.Printf("Error cataloging missing data: %v", err)
		}
	}
}
