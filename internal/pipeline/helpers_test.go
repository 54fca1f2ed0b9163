package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BartekS5/churnflow/pkg/models"
)

func fptr(f float64) *float64 { return &f }

// testRegistry builds a small schema registry: an identifier, one
// categorical, one int range, one float range and the churn label.
func testRegistry(t *testing.T) *models.Registry {
	t.Helper()
	reg, err := models.NewRegistry("customerID", []models.ColumnSpec{
		{Name: "customerID", Type: models.TypeString},
		{Name: "plan", Type: models.TypeString, Allowed: []string{"Basic", "Pro"}},
		{Name: "tenure", Type: models.TypeInt, Min: fptr(0), Max: fptr(72)},
		{Name: "MonthlyCharges", Type: models.TypeFloat, Min: fptr(0), Max: fptr(500)},
		{Name: "Churn", Type: models.TypeString, Allowed: []string{"Yes", "No"}},
	})
	require.NoError(t, err)
	return reg
}

var testHeader = "customerID,plan,tenure,MonthlyCharges,Churn\n"

// writeFileAt writes content to path and stamps it with the given mod time
// so newest-file discovery is deterministic.
func writeFileAt(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

// fakeClock hands out strictly increasing timestamps so report filenames
// never collide within a test.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Next() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// recordingVersionLog captures version entries in memory.
type recordingVersionLog struct {
	entries []models.VersionEntry
}

func (r *recordingVersionLog) Append(e models.VersionEntry) error {
	r.entries = append(r.entries, e)
	return nil
}
