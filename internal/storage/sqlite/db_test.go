package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"gareport/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gareport-test.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := newTestDB(t)
	started := time.Now().UTC().Truncate(time.Second)

	if err := InsertRun(db, "run-1", "default", started); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if err := FinishRun(db, "run-1", 3, 2, started.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	var artifacts, missing int
	if err := db.QueryRow(`SELECT artifacts, missing FROM runs WHERE id = ?`, "run-1").Scan(&artifacts, &missing); err != nil {
		t.Fatalf("query run failed: %v", err)
	}
	if artifacts != 3 || missing != 2 {
		t.Fatalf("run counters = %d, %d, want 3, 2", artifacts, missing)
	}
}

func TestArtifactsAndMissingData(t *testing.T) {
	db := newTestDB(t)
	if err := InsertRun(db, "run-1", "default", time.Now()); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	key := domain.ArtifactKey{Program: "ENCM", RowOrdinal: 4, Indicator: "KB-1", Level: "I", Location: "Core"}
	if err := InsertArtifact(db, "run-1", key, "Histograms/report.xlsx"); err != nil {
		t.Fatalf("InsertArtifact failed: %v", err)
	}
	n, err := ArtifactCountForRun(db, "run-1")
	if err != nil {
		t.Fatalf("ArtifactCountForRun failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("artifact count = %d, want 1", n)
	}

	entries := []domain.MissingData{
		{Program: "ENCM", Course: "ENGI1040", Assessment: "Circuits", Indicator: "KB-1", Level: "I", Reason: "no grade file found"},
		{Program: "ENCV", Course: "MATH2050", Assessment: "Final Exam", Indicator: "KB-2", Level: "D", Reason: "no bins defined"},
	}
	for _, md := range entries {
		if err := InsertMissing(db, "run-1", md); err != nil {
			t.Fatalf("InsertMissing failed: %v", err)
		}
	}

	got, err := MissingForRun(db, "run-1")
	if err != nil {
		t.Fatalf("MissingForRun failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d missing entries, want 2", len(got))
	}
	if got[0] != entries[0] || got[1] != entries[1] {
		t.Fatalf("missing entries round-tripped wrong: %+v", got)
	}

	if other, err := MissingForRun(db, "run-2"); err != nil || len(other) != 0 {
		t.Fatalf("unrelated run returned %v, %v", other, err)
	}
}
