// Package models defines the schema registry, validation report and
// version-log types shared across the pipeline.
package models

import "fmt"

// Type tags used by the schema registry and the batch type inference.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
)

// ColumnSpec is one per-column constraint record. All constraint kinds for
// a column live in the same record so cross-field invariants can be checked
// when the registry is built.
type ColumnSpec struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Allowed []string `yaml:"allowed,omitempty"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
}

// IsNumeric reports whether the column holds int or float values.
func (c ColumnSpec) IsNumeric() bool {
	return c.Type == TypeInt || c.Type == TypeFloat
}

// Registry is the immutable schema registry: an ordered table of column
// constraint records plus the name of the row-identifier column.
type Registry struct {
	idColumn string
	columns  []ColumnSpec
	index    map[string]int
}

// NewRegistry builds a Registry from constraint records, rejecting
// inconsistent schemas up front rather than at validation time.
func NewRegistry(idColumn string, columns []ColumnSpec) (*Registry, error) {
	if idColumn == "" {
		return nil, fmt.Errorf("schema registry: id column not set")
	}
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("schema registry: column %d has no name", i)
		}
		if _, dup := index[col.Name]; dup {
			return nil, fmt.Errorf("schema registry: duplicate column %q", col.Name)
		}
		switch col.Type {
		case TypeString, TypeInt, TypeFloat:
		default:
			return nil, fmt.Errorf("schema registry: column %q has unknown type %q", col.Name, col.Type)
		}
		if (col.Min != nil) != (col.Max != nil) {
			return nil, fmt.Errorf("schema registry: column %q must set both min and max", col.Name)
		}
		if col.Min != nil {
			if !col.IsNumeric() {
				return nil, fmt.Errorf("schema registry: range on non-numeric column %q", col.Name)
			}
			if *col.Min > *col.Max {
				return nil, fmt.Errorf("schema registry: column %q has min %v above max %v", col.Name, *col.Min, *col.Max)
			}
		}
		if col.Allowed != nil && len(col.Allowed) == 0 {
			return nil, fmt.Errorf("schema registry: column %q has an empty allowed-value set", col.Name)
		}
		index[col.Name] = i
	}
	if _, ok := index[idColumn]; !ok {
		return nil, fmt.Errorf("schema registry: id column %q not in column set", idColumn)
	}
	return &Registry{idColumn: idColumn, columns: columns, index: index}, nil
}

// IDColumn returns the name of the row-identifier column.
func (r *Registry) IDColumn() string { return r.idColumn }

// Columns returns a copy of the constraint table in declaration order.
func (r *Registry) Columns() []ColumnSpec {
	out := make([]ColumnSpec, len(r.columns))
	copy(out, r.columns)
	return out
}

// ExpectedType returns the type tag for a registry column.
func (r *Registry) ExpectedType(column string) (string, bool) {
	i, ok := r.index[column]
	if !ok {
		return "", false
	}
	return r.columns[i].Type, true
}

// AllowedValues returns the permitted value set for a categorical column,
// or ok=false when no domain constraint applies.
func (r *Registry) AllowedValues(column string) ([]string, bool) {
	i, ok := r.index[column]
	if !ok || r.columns[i].Allowed == nil {
		return nil, false
	}
	out := make([]string, len(r.columns[i].Allowed))
	copy(out, r.columns[i].Allowed)
	return out, true
}

// Range returns the inclusive [min, max] bounds for a numeric column, or
// ok=false when no range constraint applies.
func (r *Registry) Range(column string) (min, max float64, ok bool) {
	i, found := r.index[column]
	if !found || r.columns[i].Min == nil {
		return 0, 0, false
	}
	return *r.columns[i].Min, *r.columns[i].Max, true
}
