package tap

import (
	"context"

	"github.com/ajitpratap0/nova/pkg/pipeline"
	"github.com/ajitpratap0/nova/pkg/table"
)

// TableTap references a remote analytical table. Value streams rows
// through the table client without staging to local files; Open hands
// the table reference to the execution engine so large tables are
// never pulled through a single process.
type TableTap struct {
	client table.Client
	spec   table.Spec
}

var _ Tap[Row] = (*TableTap)(nil)

// NewTableTap creates a table tap. client is used only by Value; Open
// reads through the pipeline context's own client.
func NewTableTap(client table.Client, spec table.Spec) *TableTap {
	return &TableTap{client: client, spec: spec}
}

// ID returns the fully qualified table reference
func (t *TableTap) ID() string { return t.spec.Reference() }

// Spec returns the table identifier and connection options
func (t *TableTap) Spec() table.Spec { return t.spec }

// Value fetches every row of the table directly
func (t *TableTap) Value(ctx context.Context) ([]Row, error) {
	return pipeline.TableCollection(t.client, t.spec).Materialize(ctx)
}

// Open asks the execution engine for a native read of the table
func (t *TableTap) Open(pctx *pipeline.Context) (*pipeline.Collection[Row], error) {
	return pctx.ReadTable(t.spec), nil
}
