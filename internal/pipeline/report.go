package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BartekS5/churnflow/pkg/models"
)

const reportTimeFormat = "2006-01-02_15-04-05"

// writeReport persists a validation report as CSV with a timestamped,
// never-reused filename and returns the path. Reports are written
// unconditionally, pass or fail; they are the audit evidence of a run.
func writeReport(dir, scope string, at time.Time, report models.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_validation_report_%s.csv", at.Format(reportTimeFormat), scope))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report '%s': %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Check", "Status", "Details"}); err != nil {
		return "", err
	}
	for _, c := range report {
		if err := w.Write([]string{c.Check, c.Status, c.Details}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write report '%s': %w", path, err)
	}
	return path, nil
}
