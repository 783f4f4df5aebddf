package tap

import (
	"context"

	"github.com/ajitpratap0/nova/pkg/fileio"
	"github.com/ajitpratap0/nova/pkg/pipeline"
)

// TextTap references a dataset of newline-delimited text shards under
// path/part-*, local or on an object store
type TextTap struct {
	fs   *fileio.Client
	path string
}

var _ Tap[string] = (*TextTap)(nil)

// NewTextTap creates a text tap over a dataset directory
func NewTextTap(fs *fileio.Client, path string) *TextTap {
	return &TextTap{fs: fs, path: path}
}

// ID returns the dataset directory
func (t *TextTap) ID() string { return t.path }

// Value reads every line of every shard
func (t *TextTap) Value(ctx context.Context) ([]string, error) {
	return pipeline.TextCollection(t.fs, t.path).Materialize(ctx)
}

// Open rebinds the dataset as a lazy text read
func (t *TextTap) Open(pctx *pipeline.Context) (*pipeline.Collection[string], error) {
	return pctx.ReadTextGlob(t.path), nil
}

// MaterializeText writes records into dir and returns the tap declared
// as the output of that write step
func MaterializeText(ctx context.Context, fs *fileio.Client, dir string, records []string, compress bool) (*TextTap, error) {
	if err := pipeline.WriteText(ctx, fs, dir, records, compress); err != nil {
		return nil, err
	}
	return NewTextTap(fs, dir), nil
}
