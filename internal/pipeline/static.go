package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
)

const rawFileTimeFormat = "2006-01-02_15-04-05"

// StaticCSVSource snapshots the reference CSV into the static raw area with
// a timestamped filename so the merger's newest-file discovery picks it up.
type StaticCSVSource struct {
	SnapshotPath string
	Dir          string

	Now func() time.Time
}

func NewStaticCSVSource(snapshotPath, dir string) *StaticCSVSource {
	return &StaticCSVSource{SnapshotPath: snapshotPath, Dir: dir, Now: time.Now}
}

func (s *StaticCSVSource) Ingest(ctx context.Context) (*dataset.Batch, string, error) {
	batch, err := dataset.ReadCSV(s.SnapshotPath)
	if err != nil {
		return nil, "", fmt.Errorf("static ingestion failed: %w", err)
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("%s_static_data.csv", s.Now().Format(rawFileTimeFormat)))
	if err := batch.WriteCSV(path); err != nil {
		return nil, "", err
	}

	logger.Infof("[INGESTION] Static ingestion successful. Rows: %d", batch.NumRows())
	logger.Infof("[INGESTION] Static data saved at: %s", path)
	return batch, path, nil
}
