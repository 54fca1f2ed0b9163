package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
)

// SQLStaticSource extracts the static snapshot from a SQL Server table
// instead of the reference CSV. The extracted batch is written to the same
// static raw area and filename pattern the CSV source uses, so everything
// downstream is oblivious to where the snapshot came from.
type SQLStaticSource struct {
	DB    *sql.DB
	Table string
	Dir   string

	Now func() time.Time
}

func NewSQLStaticSource(db *sql.DB, table, dir string) *SQLStaticSource {
	return &SQLStaticSource{DB: db, Table: table, Dir: dir, Now: time.Now}
}

func (s *SQLStaticSource) Ingest(ctx context.Context) (*dataset.Batch, string, error) {
	query := fmt.Sprintf("SELECT * FROM %s", s.Table)
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, "", fmt.Errorf("static SQL extraction failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, "", err
	}

	batch := dataset.NewBatch(cols)
	columns := make([]interface{}, len(cols))
	columnPointers := make([]interface{}, len(cols))
	for i := range columns {
		columnPointers[i] = &columns[i]
	}

	for rows.Next() {
		if err := rows.Scan(columnPointers...); err != nil {
			return nil, "", err
		}
		row := make(map[string]dataset.Value, len(cols))
		for i, colName := range cols {
			row[colName] = sqlCell(columns[i])
		}
		batch.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("%s_static_data.csv", s.Now().Format(rawFileTimeFormat)))
	if err := batch.WriteCSV(path); err != nil {
		return nil, "", err
	}

	logger.Infof("[INGESTION] Static SQL extraction successful. Rows: %d", batch.NumRows())
	logger.Infof("[INGESTION] Static data saved at: %s", path)
	return batch, path, nil
}

// sqlCell renders a scanned SQL value as a batch cell.
func sqlCell(val interface{}) dataset.Value {
	switch v := val.(type) {
	case nil:
		return dataset.NullValue
	case []byte:
		return dataset.String(string(v))
	case string:
		return dataset.String(v)
	case int64:
		return dataset.String(strconv.FormatInt(v, 10))
	case float64:
		return dataset.String(strconv.FormatFloat(v, 'f', 2, 64))
	case bool:
		if v {
			return dataset.String("1")
		}
		return dataset.String("0")
	case time.Time:
		return dataset.String(v.Format(time.RFC3339))
	default:
		return dataset.String(fmt.Sprintf("%v", v))
	}
}
