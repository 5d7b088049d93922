package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrEmptyReport is returned when there are no outcomes to save.
var ErrEmptyReport = errors.New("no validation results to save")

// Save writes the report for outcomes to dir, named by Filename(generatedAt),
// and returns the written path. An existing report for the same day is replaced.
func Save(dir string, outcomes []Outcome, generatedAt time.Time) (string, error) {
	if len(outcomes) == 0 {
		return "", ErrEmptyReport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	path := filepath.Join(dir, Filename(generatedAt))
	if err := os.WriteFile(path, []byte(FormatReport(outcomes, generatedAt)), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
