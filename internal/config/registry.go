package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BartekS5/churnflow/pkg/models"
)

// registryFile mirrors the schema.yaml document: the identifier column plus
// one constraint record per column.
type registryFile struct {
	IDColumn string              `yaml:"id_column"`
	Columns  []models.ColumnSpec `yaml:"columns"`
}

// LoadRegistry reads and parses the schema registry file from the given
// path. The returned registry is immutable; constraint consistency is
// checked here, at construction time.
func LoadRegistry(filePath string) (*models.Registry, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file '%s': %w", filePath, err)
	}

	var doc registryFile
	if err := yaml.Unmarshal(bytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema file '%s': %w", filePath, err)
	}

	reg, err := models.NewRegistry(doc.IDColumn, doc.Columns)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file '%s': %w", filePath, err)
	}
	return reg, nil
}
