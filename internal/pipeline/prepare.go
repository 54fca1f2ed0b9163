package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
	"github.com/BartekS5/churnflow/pkg/models"
)

// Preparer cleans the master dataset for modeling: profiles numeric
// columns, imputes missing numeric cells with the column median, trims
// whitespace in string cells and drops duplicate-identifier rows.
type Preparer struct {
	MasterPath string
	OutPath    string
	Registry   *models.Registry
}

func NewPreparer(masterPath, outPath string, registry *models.Registry) *Preparer {
	return &Preparer{MasterPath: masterPath, OutPath: outPath, Registry: registry}
}

func (p *Preparer) Run(ctx context.Context) error {
	batch, err := dataset.ReadCSV(p.MasterPath)
	if err != nil {
		return fmt.Errorf("preparation failed, master dataset unavailable: %w", err)
	}
	logger.Infof("[PREPARATION] Loaded master dataset. Rows: %d", batch.NumRows())

	for _, spec := range p.Registry.Columns() {
		if !spec.IsNumeric() || !batch.HasColumn(spec.Name) {
			continue
		}
		if err := p.prepareNumeric(batch, spec); err != nil {
			return err
		}
	}

	p.trimStrings(batch)
	cleaned := p.dropDuplicateIDs(batch)

	if err := cleaned.WriteCSV(p.OutPath); err != nil {
		return err
	}
	logger.Infof("[PREPARATION] Prepared dataset saved at: %s. Rows: %d", p.OutPath, cleaned.NumRows())
	return nil
}

// prepareNumeric logs a profile of the column and imputes nulls with the
// median of the observed values.
func (p *Preparer) prepareNumeric(batch *dataset.Batch, spec models.ColumnSpec) error {
	var values []float64
	for i := range batch.Rows {
		if f, ok := batch.Cell(i, spec.Name).Float(); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		logger.Warnf("[PREPARATION] Column %s has no numeric values, skipping", spec.Name)
		return nil
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return fmt.Errorf("profiling %s: %w", spec.Name, err)
	}
	median, err := stats.Median(values)
	if err != nil {
		return fmt.Errorf("profiling %s: %w", spec.Name, err)
	}
	stddev, err := stats.StandardDeviation(values)
	if err != nil {
		return fmt.Errorf("profiling %s: %w", spec.Name, err)
	}
	logger.Infof("[PREPARATION] %s: count=%d mean=%.2f median=%.2f stddev=%.2f",
		spec.Name, len(values), mean, median, stddev)

	imputed := 0
	fill := dataset.String(fmt.Sprintf("%.2f", median))
	if spec.Type == models.TypeInt {
		fill = dataset.String(fmt.Sprintf("%d", int64(median)))
	}
	for i := range batch.Rows {
		if batch.Cell(i, spec.Name).Null {
			batch.Rows[i][spec.Name] = fill
			imputed++
		}
	}
	if imputed > 0 {
		logger.Infof("[PREPARATION] Imputed %d missing %s values with median", imputed, spec.Name)
	}
	return nil
}

func (p *Preparer) trimStrings(batch *dataset.Batch) {
	for i := range batch.Rows {
		for _, col := range batch.Columns {
			v := batch.Cell(i, col)
			if v.Null {
				continue
			}
			if trimmed := strings.TrimSpace(v.Raw); trimmed != v.Raw {
				batch.Rows[i][col] = dataset.Value{Raw: trimmed, Null: trimmed == ""}
			}
		}
	}
}

// dropDuplicateIDs keeps the first row for each identifier value.
func (p *Preparer) dropDuplicateIDs(batch *dataset.Batch) *dataset.Batch {
	id := p.Registry.IDColumn()
	if !batch.HasColumn(id) {
		return batch
	}

	out := dataset.NewBatch(batch.Columns)
	seen := make(map[string]struct{}, batch.NumRows())
	dropped := 0
	for i := range batch.Rows {
		v := batch.Cell(i, id)
		key := v.Raw
		if v.Null {
			key = "\x00"
		}
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out.Append(batch.Rows[i])
	}
	if dropped > 0 {
		logger.Infof("[PREPARATION] Dropped %d duplicate %s rows", dropped, id)
	}
	return out
}
