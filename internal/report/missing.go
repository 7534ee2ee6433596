package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gareport/internal/domain"
)

// MissingDataLog is the append-only sink for every indicator a run could
// not fully resolve. It is opened for the duration of one run and closed
// on every exit path, so partial runs never truncate or corrupt it.
type MissingDataLog struct {
	f     *os.File
	count int
}

// OpenMissingDataLog opens (or creates) the log in append mode; repeated
// runs keep extending the same file.
func OpenMissingDataLog(path string) (*MissingDataLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open missing-data log %s: %w", path, err)
	}
	return &MissingDataLog{f: f}, nil
}

// Append writes one failure line with enough context to locate the
// source spreadsheet.
func (l *MissingDataLog) Append(md domain.MissingData) error {
	l.count++
	line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		time.Now().Format(time.RFC3339),
		md.Program, md.Course, md.Assessment, md.Indicator, md.Level, md.Reason,
	)
	if _, err := l.f.WriteString(line); err != nil {
		return fmt.Errorf("append missing-data log: %w", err)
	}
	return nil
}

// Count is the number of entries appended during this run.
func (l *MissingDataLog) Count() int { return l.count }

func (l *MissingDataLog) Close() error {
	if err := l.f.Sync(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
