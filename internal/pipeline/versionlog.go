package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BartekS5/churnflow/pkg/models"
)

var versionLogHeader = []string{"LoggedAt", "RunID", "Dataset", "Path", "Rows", "Source", "Changelog"}

// FileVersionLog appends audit records to a CSV file, writing the header on
// first use. One pipeline run shares one RunID across its entries.
type FileVersionLog struct {
	Path  string
	RunID string

	Now func() time.Time
}

func NewFileVersionLog(path, runID string) *FileVersionLog {
	return &FileVersionLog{Path: path, RunID: runID, Now: time.Now}
}

func (l *FileVersionLog) Append(entry models.VersionEntry) error {
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = l.Now()
	}
	if entry.RunID == "" {
		entry.RunID = l.RunID
	}

	if err := os.MkdirAll(filepath.Dir(l.Path), 0755); err != nil {
		return fmt.Errorf("failed to create version log directory: %w", err)
	}

	_, statErr := os.Stat(l.Path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open version log '%s': %w", l.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(versionLogHeader); err != nil {
			return err
		}
	}
	record := []string{
		entry.LoggedAt.Format(time.RFC3339),
		entry.RunID,
		entry.Dataset,
		entry.Path,
		strconv.Itoa(entry.Rows),
		entry.Source,
		entry.Changelog,
	}
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write version log '%s': %w", l.Path, err)
	}
	return nil
}
