package report

import (
	"database/sql"
	"time"

	"gareport/internal/domain"
	"gareport/internal/storage/sqlite"
)

func insertRun(db *sql.DB, runID, configName string, startedAt time.Time) error {
	return sqlite.InsertRun(db, runID, configName, startedAt)
}

func finishRun(db *sql.DB, r RunResult) error {
	return sqlite.FinishRun(db, r.RunID, r.Artifacts, r.Missing, r.Finished)
}

func insertArtifact(db *sql.DB, runID string, key domain.ArtifactKey, path string) error {
	return sqlite.InsertArtifact(db, runID, key, path)
}

func insertMissing(db *sql.DB, runID string, md domain.MissingData) error {
	return sqlite.InsertMissing(db, runID, md)
}
