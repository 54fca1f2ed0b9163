package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/churnflow/pkg/models"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DATA_DIR", "REPORT_DIR", "SCHEMA_FILE", "LOG_FILE",
		"LIVE_BATCH_SIZE", "SQL_CONNECTION_STRING", "MONGO_CONNECTION_STRING",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data_validation_reports", cfg.ReportDir)
	assert.Equal(t, filepath.Join("configs", "schema.yaml"), cfg.SchemaFile)
	assert.Equal(t, 10, cfg.LiveBatchSize)
	assert.Empty(t, cfg.SQLConnString)
	assert.Empty(t, cfg.MongoConnString)

	assert.Equal(t, filepath.Join("data", "raw", "combined", "master_combined_raw_data.csv"), cfg.MasterPath())
	assert.Equal(t, filepath.Join("data", "raw", "static"), cfg.StaticRawDir())
	assert.Equal(t, filepath.Join("data", "raw", "live"), cfg.LiveRawDir())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/churn")
	t.Setenv("LIVE_BATCH_SIZE", "25")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/churn", cfg.DataDir)
	assert.Equal(t, 25, cfg.LiveBatchSize)
	assert.Equal(t, filepath.Join("/var/lib/churn", "models", "churn_model.json"), cfg.ModelPath())
}

func TestLoadConfigRejectsBadBatchSize(t *testing.T) {
	for _, raw := range []string{"zero", "-5", "0"} {
		t.Setenv("LIVE_BATCH_SIZE", raw)
		_, err := LoadConfig()
		require.Error(t, err, raw)
	}
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	doc := `
id_column: customerID
columns:
  - name: customerID
    type: string
  - name: plan
    type: string
    allowed: [Basic, Pro]
  - name: tenure
    type: int
    min: 0
    max: 72
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	assert.Equal(t, "customerID", reg.IDColumn())

	allowed, ok := reg.AllowedValues("plan")
	require.True(t, ok)
	assert.Equal(t, []string{"Basic", "Pro"}, allowed)

	min, max, ok := reg.Range("tenure")
	require.True(t, ok)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 72.0, max)

	typ, ok := reg.ExpectedType("tenure")
	require.True(t, ok)
	assert.Equal(t, models.TypeInt, typ)
}

func TestLoadRegistryErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRegistry(filepath.Join(t.TempDir(), "ghost.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read schema file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		require.NoError(t, os.WriteFile(path, []byte("columns: ["), 0644))
		_, err := LoadRegistry(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse schema file")
	})

	t.Run("inconsistent constraints", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "schema.yaml")
		doc := `
id_column: id
columns:
  - name: id
    type: string
  - name: note
    type: string
    min: 0
    max: 5
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
		_, err := LoadRegistry(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid schema file")
	})
}

func TestShippedSchemaIsValid(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "schema.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "customerID", reg.IDColumn())
	assert.Len(t, reg.Columns(), 21)

	min, max, ok := reg.Range("MonthlyCharges")
	require.True(t, ok)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 1000.0, max)

	allowed, ok := reg.AllowedValues("PaymentMethod")
	require.True(t, ok)
	assert.Len(t, allowed, 4)
}
