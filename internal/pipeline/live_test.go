package pipeline

import (
	"context"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLiveSource(t *testing.T, n int, dir string) *LiveSource {
	t.Helper()
	src := NewLiveSource(testRegistry(t), n, dir)
	src.Rand = rand.New(rand.NewSource(7))
	return src
}

func TestLiveSourceGeneratesValidBatches(t *testing.T) {
	src := newTestLiveSource(t, 25, t.TempDir())
	batch := src.Generate()

	require.Equal(t, 25, batch.NumRows())
	assert.Equal(t, []string{"customerID", "plan", "tenure", "MonthlyCharges", "Churn"}, batch.Columns)

	report := NewValidator(testRegistry(t)).Validate(batch)
	assert.True(t, report.AllPass(), "generated data always satisfies its own registry: %v", report.Failures())
}

func TestLiveSourceCustomerIDs(t *testing.T) {
	src := newTestLiveSource(t, 10, t.TempDir())
	batch := src.Generate()

	for i := range batch.Rows {
		id := batch.Cell(i, "customerID")
		require.False(t, id.Null)
		assert.True(t, strings.HasPrefix(id.Raw, "LIVE-"), "id %q", id.Raw)
		assert.Len(t, id.Raw, len("LIVE-")+6)
	}
}

func TestLiveSourceIngestWritesDiscoverableFile(t *testing.T) {
	dir := t.TempDir()
	src := newTestLiveSource(t, 5, dir)

	batch, path, err := src.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, batch.NumRows())

	matched, err := filepath.Match(LiveFilePattern, filepath.Base(path))
	require.NoError(t, err)
	assert.True(t, matched, "written file %q must match the merger's discovery pattern", path)

	found, err := latestFile(dir, LiveFilePattern)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}
