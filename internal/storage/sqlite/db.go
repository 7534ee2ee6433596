// Package sqlite keeps the run catalog: one row per generation run, per
// exported artifact and per missing-data event, so past runs can be
// audited without digging through log files.
package sqlite

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"gareport/internal/domain"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		config_name TEXT NOT NULL,
		started_at  DATETIME NOT NULL,
		finished_at DATETIME,
		artifacts   INTEGER DEFAULT 0,
		missing     INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS artifacts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      TEXT NOT NULL,
		program     TEXT NOT NULL,
		row_ordinal INTEGER NOT NULL,
		indicator   TEXT NOT NULL,
		level       TEXT NOT NULL,
		location    TEXT NOT NULL,
		path        TEXT NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);

	CREATE TABLE IF NOT EXISTS missing_data (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		program    TEXT NOT NULL,
		course     TEXT NOT NULL,
		assessment TEXT NOT NULL,
		indicator  TEXT NOT NULL,
		level      TEXT NOT NULL,
		reason     TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_missing_run ON missing_data(run_id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func InsertRun(db *sql.DB, runID, configName string, startedAt time.Time) error {
	_, err := db.Exec(
		`INSERT INTO runs (id, config_name, started_at) VALUES (?, ?, ?)`,
		runID, configName, startedAt,
	)
	return err
}

func FinishRun(db *sql.DB, runID string, artifacts, missing int, finishedAt time.Time) error {
	_, err := db.Exec(
		`UPDATE runs SET finished_at = ?, artifacts = ?, missing = ? WHERE id = ?`,
		finishedAt, artifacts, missing, runID,
	)
	return err
}

func InsertArtifact(db *sql.DB, runID string, key domain.ArtifactKey, path string) error {
	_, err := db.Exec(
		`INSERT INTO artifacts (run_id, program, row_ordinal, indicator, level, location, path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, key.Program, key.RowOrdinal, key.Indicator, key.Level, key.Location, path,
	)
	return err
}

func InsertMissing(db *sql.DB, runID string, md domain.MissingData) error {
	_, err := db.Exec(
		`INSERT INTO missing_data (run_id, program, course, assessment, indicator, level, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, md.Program, md.Course, md.Assessment, md.Indicator, md.Level, md.Reason,
	)
	return err
}

func MissingForRun(db *sql.DB, runID string) ([]domain.MissingData, error) {
	rows, err := db.Query(
		`SELECT program, course, assessment, indicator, level, reason
		 FROM missing_data WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MissingData
	for rows.Next() {
		var md domain.MissingData
		if err := rows.Scan(&md.Program, &md.Course, &md.Assessment, &md.Indicator, &md.Level, &md.Reason); err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, rows.Err()
}

func ArtifactCountForRun(db *sql.DB, runID string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM artifacts WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}
