package pipeline

import (
	"context"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/models"
)

// Source produces one raw record batch and persists it to the raw data
// area, returning the batch and the path it was written to.
type Source interface {
	Ingest(ctx context.Context) (*dataset.Batch, string, error)
}

// VersionLogger appends one audit record per successful dataset write.
type VersionLogger interface {
	Append(entry models.VersionEntry) error
}
