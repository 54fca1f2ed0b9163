package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
	"github.com/BartekS5/churnflow/pkg/models"
)

// Transformer encodes the prepared dataset for modeling. Binary Yes/No
// domains become 1/0, other categorical columns are label-encoded by their
// position in the registry's allowed-value list, and numeric columns pass
// through unchanged. The identifier column is carried along as the row key.
type Transformer struct {
	InPath   string
	OutPath  string
	Registry *models.Registry

	// Store is optional; when nil the encoded batch is only written to disk.
	Store    *FeatureStore
	Versions VersionLogger
}

func NewTransformer(inPath, outPath string, registry *models.Registry, store *FeatureStore, versions VersionLogger) *Transformer {
	return &Transformer{InPath: inPath, OutPath: outPath, Registry: registry, Store: store, Versions: versions}
}

func (t *Transformer) Run(ctx context.Context) error {
	batch, err := dataset.ReadCSV(t.InPath)
	if err != nil {
		return fmt.Errorf("transformation failed, prepared dataset unavailable: %w", err)
	}

	encoded, err := t.Encode(batch)
	if err != nil {
		return err
	}

	if err := encoded.WriteCSV(t.OutPath); err != nil {
		return err
	}
	logger.Infof("[TRANSFORMATION] Transformed dataset saved at: %s. Rows: %d", t.OutPath, encoded.NumRows())

	if t.Store != nil {
		if err := t.Store.Load(ctx, encoded); err != nil {
			return err
		}
	} else {
		logger.Infof("[TRANSFORMATION] No feature store configured, skipping load.")
	}

	if t.Versions != nil {
		if err := t.Versions.Append(models.VersionEntry{
			Dataset:   filepath.Base(t.OutPath),
			Path:      t.OutPath,
			Rows:      encoded.NumRows(),
			Source:    "prepared master data",
			Changelog: "Encoded categorical features for modeling",
		}); err != nil {
			return err
		}
	}
	return nil
}

// Encode applies the registry-driven encoding to a batch.
func (t *Transformer) Encode(batch *dataset.Batch) (*dataset.Batch, error) {
	out := dataset.NewBatch(batch.Columns)
	id := t.Registry.IDColumn()

	for i := range batch.Rows {
		row := make(map[string]dataset.Value, len(batch.Columns))
		for _, col := range batch.Columns {
			v := batch.Cell(i, col)
			if v.Null || col == id {
				row[col] = v
				continue
			}
			allowed, ok := t.Registry.AllowedValues(col)
			if !ok {
				row[col] = v
				continue
			}
			code, err := encodeCategorical(v.Raw, allowed)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, col, err)
			}
			row[col] = dataset.String(strconv.Itoa(code))
		}
		out.Append(row)
	}
	return out, nil
}

// encodeCategorical maps a categorical value to its numeric code. A
// two-value Yes/No domain maps Yes=1, No=0 regardless of declaration
// order; everything else encodes by allowed-list position.
func encodeCategorical(value string, allowed []string) (int, error) {
	if isYesNo(allowed) {
		switch value {
		case "Yes":
			return 1, nil
		case "No":
			return 0, nil
		}
		return 0, fmt.Errorf("value %q outside domain", value)
	}
	for i, a := range allowed {
		if a == value {
			return i, nil
		}
	}
	return 0, fmt.Errorf("value %q outside domain", value)
}

func isYesNo(allowed []string) bool {
	if len(allowed) != 2 {
		return false
	}
	return (allowed[0] == "Yes" && allowed[1] == "No") || (allowed[0] == "No" && allowed[1] == "Yes")
}
