package tap

import (
	"context"

	"github.com/ajitpratap0/nova/pkg/fileio"
	"github.com/ajitpratap0/nova/pkg/pipeline"
)

// RowTap references a dataset of JSON-encoded structured rows, one
// document per line under path/part-*
type RowTap struct {
	fs   *fileio.Client
	path string
}

var _ Tap[Row] = (*RowTap)(nil)

// NewRowTap creates a JSON row tap over a dataset directory
func NewRowTap(fs *fileio.Client, path string) *RowTap {
	return &RowTap{fs: fs, path: path}
}

// ID returns the dataset directory
func (t *RowTap) ID() string { return t.path }

// Value reads and deserializes every row. A malformed document aborts
// the read rather than being skipped.
func (t *RowTap) Value(ctx context.Context) ([]Row, error) {
	return pipeline.RowCollection(t.fs, t.path).Materialize(ctx)
}

// Open rebinds the dataset as a lazy JSON row read
func (t *RowTap) Open(pctx *pipeline.Context) (*pipeline.Collection[Row], error) {
	return pctx.ReadRowGlob(t.path), nil
}

// MaterializeRows writes rows into dir and returns the tap declared as
// the output of that write step
func MaterializeRows(ctx context.Context, fs *fileio.Client, dir string, rows []Row, compress bool) (*RowTap, error) {
	if err := pipeline.WriteRows(ctx, fs, dir, rows, compress); err != nil {
		return nil, err
	}
	return NewRowTap(fs, dir), nil
}
