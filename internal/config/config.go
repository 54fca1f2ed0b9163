// Package config handles environment configuration and loading of the
// schema registry file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all settings for one pipeline run, loaded from environment
// variables (populated from the .env file in main). The SQL and Mongo
// connection strings are optional; without them the pipeline runs purely
// on local CSV files.
type Config struct {
	DataDir    string
	ReportDir  string
	SchemaFile string
	LogFile    string

	LiveBatchSize int

	SQLConnString  string
	SQLStaticTable string

	MongoConnString string
}

// LoadConfig loads application settings from environment variables,
// applying defaults for everything that is unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DataDir:         envOr("DATA_DIR", "data"),
		ReportDir:       envOr("REPORT_DIR", "data_validation_reports"),
		SchemaFile:      envOr("SCHEMA_FILE", filepath.Join("configs", "schema.yaml")),
		LogFile:         envOr("LOG_FILE", "churnflow.log"),
		SQLConnString:   os.Getenv("SQL_CONNECTION_STRING"),
		SQLStaticTable:  envOr("SQL_STATIC_TABLE", "customers"),
		MongoConnString: os.Getenv("MONGO_CONNECTION_STRING"),
	}

	cfg.LiveBatchSize = 10
	if raw := os.Getenv("LIVE_BATCH_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LIVE_BATCH_SIZE %q", raw)
		}
		cfg.LiveBatchSize = n
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Derived locations inside the data root. These mirror the raw/combined/
// processed layout the downstream steps expect.

func (c *Config) StaticSnapshotPath() string {
	return filepath.Join(c.DataDir, "Telco-Customer-Churn.csv")
}

func (c *Config) StaticRawDir() string { return filepath.Join(c.DataDir, "raw", "static") }

func (c *Config) LiveRawDir() string { return filepath.Join(c.DataDir, "raw", "live") }

func (c *Config) MasterPath() string {
	return filepath.Join(c.DataDir, "raw", "combined", "master_combined_raw_data.csv")
}

func (c *Config) PreparedPath() string {
	return filepath.Join(c.DataDir, "processed", "prepared_data.csv")
}

func (c *Config) TransformedPath() string {
	return filepath.Join(c.DataDir, "processed", "transformed_data.csv")
}

func (c *Config) ModelPath() string {
	return filepath.Join(c.DataDir, "models", "churn_model.json")
}

func (c *Config) VersionLogPath() string {
	return filepath.Join(c.DataDir, "data_versions.csv")
}
