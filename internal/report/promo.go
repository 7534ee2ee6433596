package report

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"gareport/internal/config"
	"gareport/internal/grades"
	"gareport/internal/tabular"
)

// promoMatch maps the promotion sheet's single-letter discipline match to
// a program; anything else lands in ENUD (undeclared).
var promoMatch = map[string]string{
	"E": "ENEL",
	"M": "ENMC",
	"T": "ENCM",
	"C": "ENCV",
	"P": "ENPR",
	"O": "ONAE",
}

// engOneCourses are the first-year courses collected from a promotion
// sheet; each must be a column of the sheet.
var engOneCourses = []string{
	"English",
	"CHEM1050",
	"MATH1001",
	"MATH2050",
	"PHYS1051",
	"ENGI1010",
	"ENGI1020",
	"ENGI1030",
	"ENGI1040",
}

// SplitPromoSheet separates an Engineering One promotion sheet into
// per-program, per-course grade files, appending one academic-year
// column per invocation. The sheet's filename year is one more than the
// academic year it covers. Non-integer marks become the -1 NDA marker.
// A missing target grade file is created fresh, never prompted for.
func SplitPromoSheet(cfg config.Config, tab tabular.Store, year int, filename string) error {
	if filename == "" {
		found, err := findPromoSheet(cfg, year)
		if err != nil {
			return err
		}
		filename = found
	}
	log.Printf("Opening promo file %s", filename)
	sheet, err := tab.ReadTable(filename)
	if err != nil {
		return fmt.Errorf("open promo sheet: %w", err)
	}
	matchCol, ok := sheet.Column("Match")
	if !ok {
		return fmt.Errorf("promo sheet %s has no Match column", filename)
	}

	// The sheet can route a row to any program the Match letters name,
	// configured or not, so the accumulator covers the union of both.
	seen := make(map[string]bool)
	var engOnePrograms []string
	addProgram := func(p string) {
		if !seen[p] {
			seen[p] = true
			engOnePrograms = append(engOnePrograms, p)
		}
	}
	for _, p := range cfg.Programs {
		addProgram(p)
	}
	for _, p := range promoMatch {
		addProgram(p)
	}
	addProgram("ENUD")
	addProgram("Core")

	master := make(map[string]map[string][]tabular.Cell)
	for _, p := range engOnePrograms {
		master[p] = make(map[string][]tabular.Cell)
	}

	for _, course := range engOneCourses {
		col, ok := sheet.Column(course)
		if !ok {
			return fmt.Errorf("promo sheet %s has no %s column", filename, course)
		}
		for i, cell := range col.Cells {
			program := "ENUD"
			if !matchCol.Cells[i].Missing {
				if p, ok := promoMatch[strings.TrimSpace(matchCol.Cells[i].Value)]; ok {
					program = p
				}
			}
			if program == "ENUD" {
				log.Printf("No program found for row %d, adding to ENUD", i+2)
			}

			grade := tabular.Cell{Value: "-1"}
			if _, err := strconv.Atoi(strings.TrimSpace(cell.Value)); err == nil && !cell.Missing {
				grade = tabular.Cell{Value: strings.TrimSpace(cell.Value)}
			} else {
				log.Printf("Grade entry at row %d of %s was not an integer, saving as -1 to indicate NDA", i+2, course)
			}

			master[program][course] = append(master[program][course], grade)
			if program != "ENUD" {
				master["Core"][course] = append(master["Core"][course], grade)
			}
		}
	}

	log.Print("Grade loading is finished, exporting now")
	yearCol := strconv.Itoa(year - 1)
	for _, p := range engOnePrograms {
		for _, c := range engOneCourses {
			cells := master[p][c]
			if len(cells) == 0 {
				continue
			}
			path := promoGradePath(cfg.GradesDir, p, c)
			target, err := tab.ReadTable(path)
			if err != nil {
				log.Printf("Creating a new grade file %s", path)
				target = &tabular.Table{}
			}
			target.AppendColumn(yearCol, cells)
			if err := tab.WriteTable(path, target); err != nil {
				return fmt.Errorf("export %s: %w", path, err)
			}
		}
	}
	log.Print("Promo sheet split complete")
	return nil
}

// findPromoSheet looks for a Core-folder file carrying the year and the
// EngOne marker.
func findPromoSheet(cfg config.Config, year int) (string, error) {
	log.Printf("Finding promo file using year %d", year)
	index := grades.NewFileIndex(cfg.GradesDir, cfg.GradeFileExt)
	files, err := index.Listing("Core")
	if err != nil {
		return "", fmt.Errorf("list Core grade directory: %w", err)
	}
	for _, f := range files {
		if strings.Contains(f, strconv.Itoa(year)) && strings.Contains(f, "EngOne") {
			return index.Path("Core", f), nil
		}
	}
	return "", fmt.Errorf("no EngOne promo sheet for %d under %s/Core", year, cfg.GradesDir)
}

// promoGradePath names the per-program course grade file, e.g.
// "Grades/ENCM/ENGI 1020 Course Grade - ENCM.xlsx". English is the one
// course without a number to space out.
func promoGradePath(gradesDir, program, course string) string {
	name := course
	if course != "English" && len(course) > 4 {
		name = course[:4] + " " + course[4:]
	}
	return filepath.Join(gradesDir, program, fmt.Sprintf("%s Course Grade - %s.xlsx", name, program))
}
