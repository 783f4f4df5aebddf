// Package pipeline is the execution-engine surface of Nova. A
// Collection is a lazy description of a dataset read; the Context binds
// collaborators and exposes one read entry point per dataset kind.
package pipeline

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Row is a structured dataset row
type Row = map[string]interface{}

// Collection is a lazy, re-executable description of a dataset read.
// Construction performs no I/O; every Materialize call re-runs the
// source from scratch, so independent executions never share state.
type Collection[T any] struct {
	name   string
	kind   string
	source func(ctx context.Context, emit func(T) error) error
}

// NewCollection creates a collection from a source function. kind
// labels metrics and traces (text, avro, row, table, object, memory);
// name is the backing reference.
func NewCollection[T any](kind, name string, source func(ctx context.Context, emit func(T) error) error) *Collection[T] {
	return &Collection[T]{name: name, kind: kind, source: source}
}

// Name returns the backing reference the collection reads
func (c *Collection[T]) Name() string { return c.name }

// Kind returns the dataset kind label
func (c *Collection[T]) Kind() string { return c.kind }

// Materialize executes the read locally and collects every record.
// This is the in-process runner; a distributed engine would instead
// consume the source through its own scheduler. Blocks until the whole
// dataset is read; callers needing a timeout wrap ctx themselves.
func (c *Collection[T]) Materialize(ctx context.Context) ([]T, error) {
	ctx, span := otel.Tracer("nova/pipeline").Start(ctx, "collection.materialize")
	span.SetAttributes(
		attribute.String("collection.kind", c.kind),
		attribute.String("collection.name", c.name),
	)
	defer span.End()

	var out []T
	err := c.source(ctx, func(v T) error {
		out = append(out, v)
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}

	recordsMaterialized.WithLabelValues(c.kind).Add(float64(len(out)))
	return out, nil
}
