package tap

import (
	"context"

	"github.com/ajitpratap0/nova/pkg/memtab"
	"github.com/ajitpratap0/nova/pkg/pipeline"
)

// MemoryTap references a dataset buffered in the in-memory registry
// under an opaque, process-unique identifier
type MemoryTap[T any] struct {
	reg *memtab.Registry
	id  string
}

var _ Tap[int] = (*MemoryTap[int])(nil)

// NewMemoryTap creates a tap over an already-published registry entry
func NewMemoryTap[T any](reg *memtab.Registry, id string) *MemoryTap[T] {
	return &MemoryTap[T]{reg: reg, id: id}
}

// PublishMemory buffers elems in the registry under a fresh identifier
// and returns the tap over it. The entry is fully published before the
// handle exists, so no reader can observe a partial entry.
func PublishMemory[T any](reg *memtab.Registry, elems []T) (*MemoryTap[T], error) {
	id := memtab.NewID()
	if err := memtab.Publish(reg, id, elems); err != nil {
		return nil, err
	}
	return NewMemoryTap[T](reg, id), nil
}

// ID returns the registry identifier
func (t *MemoryTap[T]) ID() string { return t.id }

// Value returns the buffered contents, in publication order
func (t *MemoryTap[T]) Value(ctx context.Context) ([]T, error) {
	return pipeline.MemoryCollection[T](t.reg, t.id).Materialize(ctx)
}

// Open seeds a lazy collection from the same buffer; both ends run in
// this process, so no serialization round-trip is involved
func (t *MemoryTap[T]) Open(pctx *pipeline.Context) (*pipeline.Collection[T], error) {
	return pipeline.FromMemory[T](pctx, t.reg, t.id), nil
}
