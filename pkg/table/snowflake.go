package table

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	sf "github.com/snowflakedb/gosnowflake"
	"google.golang.org/api/iterator"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// snowflake error number for "object does not exist or not authorized"
const sfErrObjectNotExist = 2003

// SnowflakeClient fetches rows from Snowflake tables through the
// standard database/sql driver
type SnowflakeClient struct {
	dsn string
}

// NewSnowflakeClient creates a Snowflake table client from a DSN,
// e.g. "user:pass@account/db/schema?warehouse=wh"
func NewSnowflakeClient(dsn string) *SnowflakeClient {
	return &SnowflakeClient{dsn: dsn}
}

// FetchRows streams every row of the table
func (c *SnowflakeClient) FetchRows(ctx context.Context, spec Spec) (RowIterator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("snowflake", c.dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to open Snowflake connection")
	}

	// identifier parts validated above, safe to interpolate
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", spec.Reference()))
	if err != nil {
		db.Close()
		var sfErr *sf.SnowflakeError
		if stderrors.As(err, &sfErr) && sfErr.Number == sfErrObjectNotExist {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "table does not exist").WithDetail("table", spec.Reference())
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to query table").WithDetail("table", spec.Reference())
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to resolve table columns")
	}

	return &sfIterator{db: db, rows: rows, cols: cols, ref: spec.Reference()}, nil
}

type sfIterator struct {
	db   *sql.DB
	rows *sql.Rows
	cols []string
	ref  string
}

func (s *sfIterator) Next() (map[string]interface{}, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "row stream failed").WithDetail("table", s.ref)
		}
		return nil, iterator.Done
	}

	values := make([]interface{}, len(s.cols))
	ptrs := make([]interface{}, len(s.cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to scan table row").WithDetail("table", s.ref)
	}

	row := make(map[string]interface{}, len(s.cols))
	for i, col := range s.cols {
		row[col] = normalizeSQLValue(values[i])
	}
	return row, nil
}

func (s *sfIterator) Close() error {
	rowsErr := s.rows.Close()
	if err := s.db.Close(); err != nil {
		return err
	}
	return rowsErr
}

// normalizeSQLValue converts driver byte slices to strings so rows are
// directly comparable to their JSON-decoded counterparts
func normalizeSQLValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
