package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/churnflow/pkg/models"
)

func TestFileVersionLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions", "data_versions.csv")
	log := NewFileVersionLog(path, "run-123")
	log.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, log.Append(models.VersionEntry{
		Dataset:   "master_combined_raw_data.csv",
		Path:      "/data/master_combined_raw_data.csv",
		Rows:      100,
		Source:    "static data, live data",
		Changelog: "Created master data with static + live",
	}))
	require.NoError(t, log.Append(models.VersionEntry{
		Dataset:   "master_combined_raw_data.csv",
		Rows:      110,
		Source:    "static data, live data",
		Changelog: "Updated master with new live data",
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two entries")

	assert.Equal(t, versionLogHeader, records[0])
	assert.Equal(t, "run-123", records[1][1], "run id stamped")
	assert.Equal(t, "2025-06-01T12:00:00Z", records[1][0])
	assert.Equal(t, "100", records[1][4])
	assert.Equal(t, "Updated master with new live data", records[2][6])
}

func TestFileVersionLogKeepsExplicitFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data_versions.csv")
	log := NewFileVersionLog(path, "run-456")

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, log.Append(models.VersionEntry{
		LoggedAt: at,
		RunID:    "override",
		Dataset:  "transformed_data.csv",
		Rows:     7,
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "override", records[1][1])
	assert.Equal(t, at.Format(time.RFC3339), records[1][0])
}
