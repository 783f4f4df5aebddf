package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/api/iterator"

	"github.com/ajitpratap0/nova/pkg/codec"
	"github.com/ajitpratap0/nova/pkg/errors"
	"github.com/ajitpratap0/nova/pkg/fileio"
	"github.com/ajitpratap0/nova/pkg/memtab"
	"github.com/ajitpratap0/nova/pkg/table"
)

const eventSchema = `{"type":"record","name":"Event","fields":[` +
	`{"name":"id","type":"long"},{"name":"name","type":"string"}]}`

func localClient() *fileio.Client {
	return fileio.New(fileio.Options{})
}

func writeShard(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestTextCollectionIsLazy(t *testing.T) {
	fs := localClient()
	missing := filepath.Join(t.TempDir(), "never-written")

	// construction must not touch storage
	col := TextCollection(fs, missing)
	require.NotNil(t, col)
	assert.Equal(t, "text", col.Kind())

	_, err := col.Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTextCollectionReadsAllShards(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "part-00000", "a\nb\n")
	writeShard(t, dir, "part-00001", "c\n")

	got, err := TextCollection(localClient(), dir).Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestCollectionIsReExecutable(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "part-00000", "x\ny\n")

	col := TextCollection(localClient(), dir)
	first, err := col.Materialize(context.Background())
	require.NoError(t, err)
	second, err := col.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// executions share no state
	first[0] = "mutated"
	third, err := col.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, third)
}

func TestRowCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fs := localClient()

	rows := []Row{
		{"id": float64(1), "name": "alpha"},
		{"id": float64(2), "name": "beta"},
	}
	require.NoError(t, WriteRows(ctx, fs, dir, rows, false))

	got, err := RowCollection(fs, dir).Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestRowCollectionMalformedLineAborts(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "part-00000", "{\"ok\":true}\nnot json\n")

	_, err := RowCollection(localClient(), dir).Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestRowCollectionBlankLineAborts(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "part-00000", "{\"ok\":true}\n\n{\"ok\":false}\n")

	_, err := RowCollection(localClient(), dir).Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestAvroCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fs := localClient()

	rows := []Row{
		{"id": int64(1), "name": "alpha"},
		{"id": int64(2), "name": "beta"},
	}
	require.NoError(t, WriteAvro(ctx, fs, dir, eventSchema, rows))

	// embedded writer schema
	got, err := AvroCollection(fs, dir, "").Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	// declared schema matching the writer schema
	got, err = AvroCollection(fs, dir, eventSchema).Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestAvroCollectionSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fs := localClient()

	require.NoError(t, WriteAvro(ctx, fs, dir, eventSchema, []Row{{"id": int64(1), "name": "x"}}))

	other := `{"type":"record","name":"Other","fields":[{"name":"v","type":"string"}]}`
	_, err := AvroCollection(fs, dir, other).Materialize(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestObjectCollectionDecodeFailure(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "part-00000", "!!! definitely not base64 !!!\n")

	_, err := ObjectCollection(localClient(), dir, codec.JSON[int]()).Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestObjectCollectionBlankLineAborts(t *testing.T) {
	dir := t.TempDir()
	writeShard(t, dir, "part-00000", "\n")

	_, err := ObjectCollection(localClient(), dir, codec.JSON[int]()).Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDecode))
}

func TestObjectCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	fs := localClient()
	c := codec.JSON[int]()

	require.NoError(t, WriteObjects(ctx, fs, dir, c, []int{1, 2, 3}, false))

	got, err := ObjectCollection(fs, dir, c).Materialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestMemoryCollectionUnknownID(t *testing.T) {
	reg := memtab.New()
	_, err := MemoryCollection[int](reg, "never-published").Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestTableCollectionStreamsRows(t *testing.T) {
	rows := []Row{{"id": int64(1)}, {"id": int64(2)}}
	client := &fakeTableClient{rows: rows}
	spec := table.Spec{Dataset: "events", Table: "clicks"}

	got, err := TableCollection(client, spec).Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.True(t, client.closed)
}

func TestTableCollectionNoClient(t *testing.T) {
	_, err := TableCollection(nil, table.Spec{Dataset: "d", Table: "t"}).Materialize(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestContextDefaults(t *testing.T) {
	p := NewContext()
	assert.NotNil(t, p.FileClient())
	assert.NotNil(t, p.Registry())
	assert.Nil(t, p.TableClient())
}

func TestContextLogsCollectionBindings(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewContext(WithLogger(zap.New(core)))

	p.ReadTextGlob("/data/events")

	entries := logs.FilterMessage("bound collection").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "text", entries[0].ContextMap()["kind"])
	assert.Equal(t, "/data/events", entries[0].ContextMap()["name"])
}

func TestFromMemoryUsesContextRegistry(t *testing.T) {
	reg := memtab.New()
	require.NoError(t, memtab.Publish(reg, "id1", []string{"a"}))

	p := NewContext(WithRegistry(reg))
	got, err := FromMemory[string](p, nil, "id1").Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}

// fakeTableClient is a test double for the remote table service
type fakeTableClient struct {
	rows   []Row
	closed bool
}

func (f *fakeTableClient) FetchRows(ctx context.Context, spec table.Spec) (table.RowIterator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &fakeIterator{client: f}, nil
}

type fakeIterator struct {
	client *fakeTableClient
	i      int
}

func (f *fakeIterator) Next() (map[string]interface{}, error) {
	if f.i >= len(f.client.rows) {
		return nil, iterator.Done
	}
	row := f.client.rows[f.i]
	f.i++
	return row, nil
}

func (f *fakeIterator) Close() error {
	f.client.closed = true
	return nil
}
