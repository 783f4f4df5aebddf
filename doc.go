// Package nova provides dataset taps for batch data-processing
// pipelines: immutable handles over already-materialized datasets that
// decouple naming a dataset from the way it gets consumed.
//
// A tap supports exactly two reads. Value pulls the whole dataset into
// process memory, eagerly, for local inspection or small outputs. Open
// rebinds the dataset as a lazy collection inside a new pipeline
// context, for further large-scale processing; no I/O happens until the
// collection is executed, and execution yields the same logical record
// set Value would.
//
// # Backends
//
// One tap variant exists per storage backend:
//
//   - tap.TextTap: newline-delimited text shards, local or object store
//   - tap.AvroTap: Avro object container files, schema declared or
//     inferred from the data
//   - tap.RowTap: JSON-encoded structured rows, one document per line
//   - tap.TableTap: a remote analytical table (BigQuery or Snowflake),
//     streamed without local staging
//   - tap.ObjectTap: arbitrary serialized records, base64 per line,
//     decoded through an explicit codec
//   - tap.MemoryTap: a buffer published in the in-process registry
//
// File-backed datasets are directories; the dataset is the union of
// all shard files matching path/part-* (gzip shards included).
//
// # Quick Start
//
// Materialize a small text dataset and reopen it in a pipeline:
//
//	fs := fileio.New(fileio.Options{})
//	t, err := tap.MaterializeText(ctx, fs, "/data/out", []string{"a", "b", "c"}, false)
//	if err != nil {
//	    return err
//	}
//
//	// eager, in-process
//	records, err := t.Value(ctx)
//
//	// lazy, inside a new pipeline context
//	pctx := pipeline.NewContext(pipeline.WithFileClient(fs))
//	col, err := t.Open(pctx)
package nova
