package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(f float64) *float64 { return &f }

func TestNewRegistryRejectsInconsistentSchemas(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		columns []ColumnSpec
		wantErr string
	}{
		{
			name:    "no id column",
			id:      "",
			columns: []ColumnSpec{{Name: "a", Type: TypeString}},
			wantErr: "id column not set",
		},
		{
			name:    "id column not declared",
			id:      "id",
			columns: []ColumnSpec{{Name: "a", Type: TypeString}},
			wantErr: `id column "id" not in column set`,
		},
		{
			name: "duplicate column",
			id:   "a",
			columns: []ColumnSpec{
				{Name: "a", Type: TypeString},
				{Name: "a", Type: TypeInt},
			},
			wantErr: `duplicate column "a"`,
		},
		{
			name: "unknown type",
			id:   "a",
			columns: []ColumnSpec{
				{Name: "a", Type: "decimal"},
			},
			wantErr: "unknown type",
		},
		{
			name: "range on string column",
			id:   "a",
			columns: []ColumnSpec{
				{Name: "a", Type: TypeString, Min: fptr(0), Max: fptr(1)},
			},
			wantErr: "range on non-numeric column",
		},
		{
			name: "min above max",
			id:   "a",
			columns: []ColumnSpec{
				{Name: "a", Type: TypeInt, Min: fptr(10), Max: fptr(1)},
			},
			wantErr: "min 10 above max 1",
		},
		{
			name: "half a range",
			id:   "a",
			columns: []ColumnSpec{
				{Name: "a", Type: TypeInt, Min: fptr(0)},
			},
			wantErr: "must set both min and max",
		},
		{
			name: "empty allowed set",
			id:   "a",
			columns: []ColumnSpec{
				{Name: "a", Type: TypeString, Allowed: []string{}},
			},
			wantErr: "empty allowed-value set",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.id, tt.columns)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryLookups(t *testing.T) {
	reg, err := NewRegistry("id", []ColumnSpec{
		{Name: "id", Type: TypeString},
		{Name: "kind", Type: TypeString, Allowed: []string{"a", "b"}},
		{Name: "count", Type: TypeInt, Min: fptr(0), Max: fptr(10)},
	})
	require.NoError(t, err)

	assert.Equal(t, "id", reg.IDColumn())

	typ, ok := reg.ExpectedType("count")
	assert.True(t, ok)
	assert.Equal(t, TypeInt, typ)
	_, ok = reg.ExpectedType("ghost")
	assert.False(t, ok, "absence means no constraint")

	allowed, ok := reg.AllowedValues("kind")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, allowed)
	_, ok = reg.AllowedValues("count")
	assert.False(t, ok)

	min, max, ok := reg.Range("count")
	assert.True(t, ok)
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 10.0, max)
	_, _, ok = reg.Range("kind")
	assert.False(t, ok)
}

func TestRegistryLookupsReturnCopies(t *testing.T) {
	reg, err := NewRegistry("id", []ColumnSpec{
		{Name: "id", Type: TypeString},
		{Name: "kind", Type: TypeString, Allowed: []string{"a", "b"}},
	})
	require.NoError(t, err)

	allowed, _ := reg.AllowedValues("kind")
	allowed[0] = "mutated"
	fresh, _ := reg.AllowedValues("kind")
	assert.Equal(t, []string{"a", "b"}, fresh)

	cols := reg.Columns()
	cols[0].Name = "mutated"
	assert.Equal(t, "id", reg.Columns()[0].Name)
}

func TestReportAllPass(t *testing.T) {
	assert.True(t, Report{}.AllPass())
	assert.True(t, Report{{Check: "a", Status: StatusPass}}.AllPass())
	assert.False(t, Report{
		{Check: "a", Status: StatusPass},
		{Check: "b", Status: StatusFail},
	}.AllPass())
}

func TestReportFailures(t *testing.T) {
	r := Report{
		{Check: "a", Status: StatusPass},
		{Check: "b", Status: StatusFail, Details: "x"},
		{Check: "c", Status: StatusFail, Details: "y"},
	}
	failures := r.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, "b", failures[0].Check)
	assert.Equal(t, "c", failures[1].Check)
}
