package grades

import "testing"

func TestFindGradeFiles(t *testing.T) {
	files := []string{
		"ENGI1040CircuitsGrade.xlsx",
		"engi 1040 circuits grade.xlsx",
		"ENGI 1040 Circuits.txt",
		"ENGI1041Circuits.xlsx",
		"MATH2050FinalExam.xlsx",
	}

	got := FindGradeFiles("ENGI 1040", "Circuits", files, ".xlsx")
	if len(got) != 2 {
		t.Fatalf("FindGradeFiles = %v, want the two xlsx matches", got)
	}
	if got[0] != "ENGI1040CircuitsGrade.xlsx" || got[1] != "engi 1040 circuits grade.xlsx" {
		t.Fatalf("unexpected matches: %v", got)
	}
}

func TestFindGradeFilesPrefixOnly(t *testing.T) {
	// The assessment must follow the course directly; a file for another
	// assessment of the same course is not a match.
	files := []string{"ENGI1040MidtermGrade.xlsx"}
	if got := FindGradeFiles("ENGI 1040", "Circuits", files, ".xlsx"); len(got) != 0 {
		t.Fatalf("FindGradeFiles = %v, want none", got)
	}
}

func TestDirectorySearchOrder(t *testing.T) {
	index := NewFixedIndex(map[string][]string{
		"ENCM": {},
		"Core": {"ENGI1040CircuitsGrade.xlsx"},
		"ECE":  {},
	}, ".xlsx")

	result := index.DirectorySearch("ENGI 1040", "Circuits", []string{"ENCM", "Core", "ECE"})

	dirs := result.Dirs()
	if len(dirs) != 3 || dirs[0] != "ENCM" || dirs[1] != "Core" || dirs[2] != "ECE" {
		t.Fatalf("unexpected search order: %v", dirs)
	}
	dir, files, ok := result.FirstNonEmpty()
	if !ok || dir != "Core" || len(files) != 1 {
		t.Fatalf("FirstNonEmpty = %q %v %v", dir, files, ok)
	}
}

func TestDirectorySearchRecordsUnlistableDirs(t *testing.T) {
	index := NewFixedIndex(map[string][]string{
		"Core": {},
	}, ".xlsx")

	// "Co-op" has no listing at all; it must still appear as searched so
	// the caller can tell a miss from a skip.
	result := index.DirectorySearch("ENGI 1040", "Circuits", []string{"Co-op", "Core"})
	if len(result.Dirs()) != 2 {
		t.Fatalf("unexpected searched dirs: %v", result.Dirs())
	}
	if !result.Empty() {
		t.Fatal("expected no matches")
	}
}

func TestListingIsCached(t *testing.T) {
	calls := 0
	index := NewFixedIndex(map[string][]string{"Core": {"a.xlsx"}}, ".xlsx")
	underlying := index.list
	index.list = func(dir string) ([]string, error) {
		calls++
		return underlying(dir)
	}

	for i := 0; i < 3; i++ {
		if _, err := index.Listing("Core"); err != nil {
			t.Fatalf("Listing failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("directory listed %d times, want 1", calls)
	}
}
