// Package tap provides dataset handles for Nova. A tap is an immutable
// reference to an already-materialized dataset: it names the data (a
// path, a table, a registry identifier) without owning its bytes.
//
// Every tap supports exactly two reads. Value pulls the whole dataset
// into memory, eagerly and synchronously; it suits datasets expected to
// fit in process memory; no size guard is imposed, that is the
// caller's responsibility. Open rebinds the same dataset as a lazy
// collection inside a pipeline context, performing no I/O until the
// collection is executed. Executing an opened collection yields the
// same logical record set Value would.
package tap

import (
	"context"

	"github.com/ajitpratap0/nova/pkg/pipeline"
)

// Row is a structured dataset row
type Row = pipeline.Row

// Tap is a handle over a materialized dataset of element type T
type Tap[T any] interface {
	// ID returns the backing reference: a dataset path, a table
	// reference or a registry identifier
	ID() string

	// Value eagerly reads every record of the dataset. A backing
	// reference that no longer resolves yields a not-found error,
	// never an empty result. Calling Value twice yields equal
	// results for file-backed and registry-backed taps.
	Value(ctx context.Context) ([]T, error)

	// Open returns a lazy collection bound to the same backing
	// reference. Each call produces an independent, re-executable
	// description; no I/O happens until the collection is executed.
	Open(pctx *pipeline.Context) (*pipeline.Collection[T], error)
}
