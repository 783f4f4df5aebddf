package pipeline

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/nova/pkg/codec"
	"github.com/ajitpratap0/nova/pkg/fileio"
	"github.com/ajitpratap0/nova/pkg/logger"
	"github.com/ajitpratap0/nova/pkg/memtab"
	"github.com/ajitpratap0/nova/pkg/table"
)

// Context binds the collaborators a pipeline execution reads through:
// the file access layer, the remote table client and the in-memory
// registry. Taps consume it in Open to produce lazy collections.
type Context struct {
	fs       *fileio.Client
	tables   table.Client
	registry *memtab.Registry
	logger   *zap.Logger
}

// Option configures a pipeline context
type Option func(*Context)

// WithFileClient binds the file access layer
func WithFileClient(fs *fileio.Client) Option {
	return func(p *Context) { p.fs = fs }
}

// WithTableClient binds the remote table client
func WithTableClient(c table.Client) Option {
	return func(p *Context) { p.tables = c }
}

// WithRegistry binds the in-memory registry
func WithRegistry(r *memtab.Registry) Option {
	return func(p *Context) { p.registry = r }
}

// WithLogger binds the logger collection bindings are reported through
func WithLogger(l *zap.Logger) Option {
	return func(p *Context) { p.logger = l }
}

// NewContext creates a pipeline context. Defaults: a local-only file
// client, the process-wide registry, no table client.
func NewContext(opts ...Option) *Context {
	p := &Context{
		fs:       fileio.New(fileio.Options{}),
		registry: memtab.Default(),
		logger:   logger.Get().With(zap.String("component", "pipeline")),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FileClient returns the bound file access layer
func (p *Context) FileClient() *fileio.Client { return p.fs }

// TableClient returns the bound remote table client, possibly nil
func (p *Context) TableClient() table.Client { return p.tables }

// Registry returns the bound in-memory registry
func (p *Context) Registry() *memtab.Registry { return p.registry }

func (p *Context) bound(kind, name string) {
	p.logger.Debug("bound collection",
		zap.String("kind", kind),
		zap.String("name", name))
}

// ReadTextGlob lazily reads dir/part-* as raw text lines
func (p *Context) ReadTextGlob(dir string) *Collection[string] {
	p.bound("text", dir)
	return TextCollection(p.fs, dir)
}

// ReadRowGlob lazily reads dir/part-* as JSON rows
func (p *Context) ReadRowGlob(dir string) *Collection[Row] {
	p.bound("row", dir)
	return RowCollection(p.fs, dir)
}

// ReadAvroGlob lazily reads dir/part-* as Avro records; schema may be
// empty to use the writer schema embedded in each shard
func (p *Context) ReadAvroGlob(dir, schema string) *Collection[Row] {
	p.bound("avro", dir)
	return AvroCollection(p.fs, dir, schema)
}

// ReadTable lazily reads a remote analytical table natively, so large
// tables are never pulled through a single process eagerly
func (p *Context) ReadTable(spec table.Spec) *Collection[Row] {
	p.bound("table", spec.Reference())
	return TableCollection(p.tables, spec)
}

// ReadObjectGlob lazily reads dir/part-* as codec-encoded records.
// Package-level because Go methods cannot carry type parameters.
func ReadObjectGlob[T any](p *Context, dir string, c codec.Codec[T]) *Collection[T] {
	p.bound("object", dir)
	return ObjectCollection(p.fs, dir, c)
}

// FromMemory lazily seeds a collection from a registry entry. reg may
// be nil to use the context's registry.
func FromMemory[T any](p *Context, reg *memtab.Registry, id string) *Collection[T] {
	if reg == nil {
		reg = p.registry
	}
	p.bound("memory", id)
	return MemoryCollection[T](reg, id)
}
