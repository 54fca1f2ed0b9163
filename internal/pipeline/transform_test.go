package pipeline

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/churnflow/pkg/dataset"
)

func TestTransformerEncodesCategoricals(t *testing.T) {
	reg := testRegistry(t)
	tr := NewTransformer("", "", reg, nil, nil)

	b := dataset.NewBatch([]string{"customerID", "plan", "tenure", "MonthlyCharges", "Churn"})
	b.Append(map[string]dataset.Value{
		"customerID":     dataset.String("C-001"),
		"plan":           dataset.String("Basic"),
		"tenure":         dataset.String("12"),
		"MonthlyCharges": dataset.String("29.85"),
		"Churn":          dataset.String("Yes"),
	})
	b.Append(map[string]dataset.Value{
		"customerID":     dataset.String("C-002"),
		"plan":           dataset.String("Pro"),
		"tenure":         dataset.String("3"),
		"MonthlyCharges": dataset.String("99.10"),
		"Churn":          dataset.String("No"),
	})

	encoded, err := tr.Encode(b)
	require.NoError(t, err)

	// label encoding by allowed-list position
	assert.Equal(t, "0", encoded.Cell(0, "plan").Raw)
	assert.Equal(t, "1", encoded.Cell(1, "plan").Raw)
	// Yes/No domains map Yes=1, No=0
	assert.Equal(t, "1", encoded.Cell(0, "Churn").Raw)
	assert.Equal(t, "0", encoded.Cell(1, "Churn").Raw)
	// identifier and numerics pass through
	assert.Equal(t, "C-001", encoded.Cell(0, "customerID").Raw)
	assert.Equal(t, "12", encoded.Cell(0, "tenure").Raw)
	assert.Equal(t, "29.85", encoded.Cell(0, "MonthlyCharges").Raw)
}

func TestTransformerPreservesNulls(t *testing.T) {
	tr := NewTransformer("", "", testRegistry(t), nil, nil)

	b := dataset.NewBatch([]string{"customerID", "plan", "tenure", "MonthlyCharges", "Churn"})
	b.Append(map[string]dataset.Value{
		"customerID":     dataset.String("C-001"),
		"plan":           dataset.NullValue,
		"tenure":         dataset.String("12"),
		"MonthlyCharges": dataset.String("29.85"),
		"Churn":          dataset.String("No"),
	})

	encoded, err := tr.Encode(b)
	require.NoError(t, err)
	assert.True(t, encoded.Cell(0, "plan").Null)
}

func TestTransformerRejectsOutOfDomainValues(t *testing.T) {
	tr := NewTransformer("", "", testRegistry(t), nil, nil)

	b := dataset.NewBatch([]string{"customerID", "plan", "tenure", "MonthlyCharges", "Churn"})
	b.Append(map[string]dataset.Value{
		"customerID":     dataset.String("C-001"),
		"plan":           dataset.String("Enterprise"),
		"tenure":         dataset.String("12"),
		"MonthlyCharges": dataset.String("29.85"),
		"Churn":          dataset.String("No"),
	})

	_, err := tr.Encode(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside domain")
}

func TestTransformerRunWritesOutputAndVersionEntry(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "prepared.csv")
	out := filepath.Join(root, "transformed_data.csv")
	writeFileAt(t, in,
		testHeader+
			"C-001,Basic,12,29.85,No\n"+
			"C-002,Pro,3,99.10,Yes\n", time.Now())

	versions := &recordingVersionLog{}
	tr := NewTransformer(in, out, testRegistry(t), nil, versions)
	require.NoError(t, tr.Run(context.Background()))

	encoded, err := dataset.ReadCSV(out)
	require.NoError(t, err)
	assert.Equal(t, 2, encoded.NumRows())
	assert.Equal(t, "0", encoded.Cell(0, "Churn").Raw)

	require.Len(t, versions.entries, 1)
	assert.Equal(t, "transformed_data.csv", versions.entries[0].Dataset)
	assert.Equal(t, 2, versions.entries[0].Rows)
}
