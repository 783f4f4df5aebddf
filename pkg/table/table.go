// Package table is the remote analytical table client used by
// table-backed dataset taps. It fetches rows directly, without staging
// to local files.
package table

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// Spec identifies a remote analytical table
type Spec struct {
	// Project is the billing/owning project (BigQuery) or database (Snowflake)
	Project string
	// Dataset is the dataset (BigQuery) or schema (Snowflake)
	Dataset string
	// Table is the table name
	Table string
}

// Reference returns the fully qualified table reference
func (s Spec) Reference() string {
	if s.Project == "" {
		return fmt.Sprintf("%s.%s", s.Dataset, s.Table)
	}
	return fmt.Sprintf("%s.%s.%s", s.Project, s.Dataset, s.Table)
}

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)
	projectPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// Validate rejects specs whose parts are not plain identifiers
func (s Spec) Validate() error {
	for _, part := range []string{s.Dataset, s.Table} {
		if !identPattern.MatchString(part) {
			return errors.Newf(errors.ErrorTypeConfig, "invalid table identifier part %q", part)
		}
	}
	if s.Project != "" && !projectPattern.MatchString(s.Project) {
		return errors.Newf(errors.ErrorTypeConfig, "invalid project %q", s.Project)
	}
	return nil
}

// RowIterator streams structured rows from a remote table.
// Next returns google.golang.org/api/iterator.Done once the table is
// exhausted. Close releases the underlying connection; it is safe to
// call after Done.
type RowIterator interface {
	Next() (map[string]interface{}, error)
	Close() error
}

// Client fetches rows from a remote analytical table service
type Client interface {
	FetchRows(ctx context.Context, spec Spec) (RowIterator, error)
}
