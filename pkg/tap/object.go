package tap

import (
	"context"

	"github.com/ajitpratap0/nova/pkg/codec"
	"github.com/ajitpratap0/nova/pkg/fileio"
	"github.com/ajitpratap0/nova/pkg/pipeline"
)

// ObjectTap references a dataset of arbitrary serialized records,
// stored as one base64-encoded record per line under path/part-*. The
// element type is fixed by the codec supplied at construction; no
// runtime type inspection is involved.
type ObjectTap[T any] struct {
	fs    *fileio.Client
	path  string
	codec codec.Codec[T]
}

var _ Tap[int] = (*ObjectTap[int])(nil)

// NewObjectTap creates a generic-object tap over a dataset directory.
// c must be the codec the dataset was written with.
func NewObjectTap[T any](fs *fileio.Client, path string, c codec.Codec[T]) *ObjectTap[T] {
	return &ObjectTap[T]{fs: fs, path: path, codec: c}
}

// ID returns the dataset directory
func (t *ObjectTap[T]) ID() string { return t.path }

// Value reads every line, decodes the base64 text through the codec
// and returns the typed records
func (t *ObjectTap[T]) Value(ctx context.Context) ([]T, error) {
	return pipeline.ObjectCollection(t.fs, t.path, t.codec).Materialize(ctx)
}

// Open rebinds the dataset as a lazy decode-on-read collection using
// the identical codec, so executed results match Value exactly
func (t *ObjectTap[T]) Open(pctx *pipeline.Context) (*pipeline.Collection[T], error) {
	return pipeline.ReadObjectGlob(pctx, t.path, t.codec), nil
}

// MaterializeObjects writes elems into dir through c and returns the
// tap declared as the output of that write step
func MaterializeObjects[T any](ctx context.Context, fs *fileio.Client, dir string, c codec.Codec[T], elems []T, compress bool) (*ObjectTap[T], error) {
	if err := pipeline.WriteObjects(ctx, fs, dir, c, elems, compress); err != nil {
		return nil, err
	}
	return NewObjectTap(fs, dir, c), nil
}
