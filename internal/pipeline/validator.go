package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/models"
)

// Validator checks record batches against the schema registry. Validate is
// a pure function: it has no side effects and depends only on the batch
// and the registry.
type Validator struct {
	registry *models.Registry
}

func NewValidator(registry *models.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate runs every check in fixed order and appends exactly one report
// row per (column, check kind), even when earlier checks already failed.
// Check order: types, missing values, the two identifier integrity checks,
// ranges, categorical domains.
func (v *Validator) Validate(batch *dataset.Batch) models.Report {
	var report models.Report

	// Data type checks
	for _, col := range v.registry.Columns() {
		if !batch.HasColumn(col.Name) {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Type - %s", col.Name),
				Status:  models.StatusFail,
				Details: "Missing column",
			})
			continue
		}
		actual := batch.ColumnType(col.Name)
		if actual == col.Type {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Type - %s", col.Name),
				Status:  models.StatusPass,
				Details: fmt.Sprintf("%s type %s is correct", col.Name, actual),
			})
		} else {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Type - %s", col.Name),
				Status:  models.StatusFail,
				Details: fmt.Sprintf("%s type %s, expected %s", col.Name, actual, col.Type),
			})
		}
	}

	// Missing values, per column actually present in the batch
	for _, col := range batch.Columns {
		nulls := batch.NullCount(col)
		if nulls == 0 {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Missing - %s", col),
				Status:  models.StatusPass,
				Details: "No missing values",
			})
		} else {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Missing - %s", col),
				Status:  models.StatusFail,
				Details: fmt.Sprintf("%d missing values", nulls),
			})
		}
	}

	// Integrity checks on the identifier column
	report = append(report, v.checkNullIDs(batch), v.checkDuplicateIDs(batch))

	// Range checks, per registry numeric column present in the batch
	for _, col := range v.registry.Columns() {
		low, high, ok := v.registry.Range(col.Name)
		if !ok || !batch.HasColumn(col.Name) {
			continue
		}
		below, above := 0, 0
		for i := range batch.Rows {
			f, parsed := batch.Cell(i, col.Name).Float()
			if !parsed {
				continue
			}
			if f < low {
				below++
			}
			if f > high {
				above++
			}
		}
		if below == 0 && above == 0 {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Range - %s", col.Name),
				Status:  models.StatusPass,
				Details: fmt.Sprintf("All values within %g-%g", low, high),
			})
		} else {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Range - %s", col.Name),
				Status:  models.StatusFail,
				Details: fmt.Sprintf("%d below %g, %d above %g", below, low, above, high),
			})
		}
	}

	// Categorical domain checks
	for _, col := range v.registry.Columns() {
		allowed, ok := v.registry.AllowedValues(col.Name)
		if !ok {
			continue
		}
		if !batch.HasColumn(col.Name) {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Domain - %s", col.Name),
				Status:  models.StatusFail,
				Details: "Column missing",
			})
			continue
		}
		allowedSet := make(map[string]struct{}, len(allowed))
		for _, a := range allowed {
			allowedSet[a] = struct{}{}
		}
		var invalid []string
		for _, val := range batch.Distinct(col.Name) {
			if _, ok := allowedSet[val]; !ok {
				invalid = append(invalid, val)
			}
		}
		if len(invalid) == 0 {
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Domain - %s", col.Name),
				Status:  models.StatusPass,
				Details: "All values valid",
			})
		} else {
			sort.Strings(invalid)
			report = append(report, models.CheckResult{
				Check:   fmt.Sprintf("Domain - %s", col.Name),
				Status:  models.StatusFail,
				Details: fmt.Sprintf("Invalid values: %s", strings.Join(invalid, ", ")),
			})
		}
	}

	return report
}

func (v *Validator) checkNullIDs(batch *dataset.Batch) models.CheckResult {
	id := v.registry.IDColumn()
	if !batch.HasColumn(id) {
		return models.CheckResult{
			Check:   "Integrity - Null ID",
			Status:  models.StatusFail,
			Details: fmt.Sprintf("%s column missing", id),
		}
	}
	if batch.NullCount(id) > 0 {
		return models.CheckResult{
			Check:   "Integrity - Null ID",
			Status:  models.StatusFail,
			Details: fmt.Sprintf("Null %s found", id),
		}
	}
	return models.CheckResult{
		Check:   "Integrity - Null ID",
		Status:  models.StatusPass,
		Details: fmt.Sprintf("No null %ss", id),
	}
}

func (v *Validator) checkDuplicateIDs(batch *dataset.Batch) models.CheckResult {
	id := v.registry.IDColumn()
	if !batch.HasColumn(id) {
		return models.CheckResult{
			Check:   "Integrity - Duplicates",
			Status:  models.StatusFail,
			Details: fmt.Sprintf("%s column missing", id),
		}
	}
	seen := make(map[string]int, batch.NumRows())
	for i := range batch.Rows {
		val := batch.Cell(i, id)
		key := val.Raw
		if val.Null {
			// nulls compare equal to each other for duplicate purposes
			key = "\x00"
		}
		seen[key]++
		if seen[key] > 1 {
			return models.CheckResult{
				Check:   "Integrity - Duplicates",
				Status:  models.StatusFail,
				Details: fmt.Sprintf("Duplicate %s found", id),
			}
		}
	}
	return models.CheckResult{
		Check:   "Integrity - Duplicates",
		Status:  models.StatusPass,
		Details: fmt.Sprintf("No duplicate %ss", id),
	}
}
