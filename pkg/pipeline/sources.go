package pipeline

import (
	"context"

	gojson "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"
	"google.golang.org/api/iterator"

	"github.com/ajitpratap0/nova/pkg/codec"
	"github.com/ajitpratap0/nova/pkg/errors"
	"github.com/ajitpratap0/nova/pkg/fileio"
	"github.com/ajitpratap0/nova/pkg/memtab"
	"github.com/ajitpratap0/nova/pkg/table"
)

// TextCollection reads every shard under dir as newline-delimited
// strings, no decoding beyond raw text
func TextCollection(fs *fileio.Client, dir string) *Collection[string] {
	return NewCollection("text", dir, func(ctx context.Context, emit func(string) error) error {
		return eachShard(ctx, fs, dir, func(shard string) error {
			return fs.ReadLines(ctx, shard, emit)
		})
	})
}

// RowCollection reads every shard under dir as one JSON document per
// line, deserialized into a Row. A malformed or blank line aborts the
// read; records are never silently skipped.
func RowCollection(fs *fileio.Client, dir string) *Collection[Row] {
	return NewCollection("row", dir, func(ctx context.Context, emit func(Row) error) error {
		return eachShard(ctx, fs, dir, func(shard string) error {
			lineNum := 0
			return fs.ReadLines(ctx, shard, func(line string) error {
				lineNum++
				if line == "" {
					return errors.New(errors.ErrorTypeDecode, "blank line in row shard").
						WithDetail("shard", shard).
						WithDetail("line", lineNum)
				}
				var row Row
				if err := gojson.Unmarshal([]byte(line), &row); err != nil {
					return errors.Wrap(err, errors.ErrorTypeDecode, "malformed JSON row").
						WithDetail("shard", shard).
						WithDetail("line", lineNum)
				}
				return emit(row)
			})
		})
	})
}

// AvroCollection reads every Avro OCF shard under dir. When schema is
// empty the writer schema embedded in each shard is used; when present
// it must match the embedded schema canonically.
func AvroCollection(fs *fileio.Client, dir, schema string) *Collection[Row] {
	return NewCollection("avro", dir, func(ctx context.Context, emit func(Row) error) error {
		var declared *goavro.Codec
		if schema != "" {
			c, err := goavro.NewCodec(schema)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig, "invalid declared Avro schema")
			}
			declared = c
		}

		return eachShard(ctx, fs, dir, func(shard string) error {
			rc, err := fs.OpenForRead(ctx, shard)
			if err != nil {
				return err
			}
			defer rc.Close()

			ocfr, err := goavro.NewOCFReader(rc)
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeDecode, "shard is not an Avro object container file").WithDetail("shard", shard)
			}
			if declared != nil && ocfr.Codec().CanonicalSchema() != declared.CanonicalSchema() {
				return errors.New(errors.ErrorTypeDecode, "declared schema does not match shard writer schema").WithDetail("shard", shard)
			}

			for ocfr.Scan() {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				datum, err := ocfr.Read()
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeDecode, "failed to decode Avro record").WithDetail("shard", shard)
				}
				rec, ok := datum.(map[string]interface{})
				if !ok {
					return errors.Newf(errors.ErrorTypeDecode, "Avro datum is %T, not a record", datum).WithDetail("shard", shard)
				}
				if err := emit(rec); err != nil {
					return err
				}
			}
			if err := ocfr.Err(); err != nil {
				return errors.Wrap(err, errors.ErrorTypeDecode, "Avro shard scan failed").WithDetail("shard", shard)
			}
			return nil
		})
	})
}

// TableCollection streams every row of a remote analytical table
// through the table client, without staging to local files
func TableCollection(client table.Client, spec table.Spec) *Collection[Row] {
	return NewCollection("table", spec.Reference(), func(ctx context.Context, emit func(Row) error) error {
		if client == nil {
			return errors.New(errors.ErrorTypeConfig, "no table client bound")
		}

		it, err := client.FetchRows(ctx, spec)
		if err != nil {
			return err
		}
		defer it.Close()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			row, err := it.Next()
			if err == iterator.Done {
				return nil
			}
			if err != nil {
				return err
			}
			if err := emit(row); err != nil {
				return err
			}
		}
	})
}

// ObjectCollection reads shards of base64-encoded serialized records,
// decoding each line through c. The decode-on-read path uses the
// identical codec the write side used, so values round-trip exactly.
// A blank line aborts the read like any other undecodable input.
func ObjectCollection[T any](fs *fileio.Client, dir string, c codec.Codec[T]) *Collection[T] {
	return NewCollection("object", dir, func(ctx context.Context, emit func(T) error) error {
		return eachShard(ctx, fs, dir, func(shard string) error {
			lineNum := 0
			return fs.ReadLines(ctx, shard, func(line string) error {
				lineNum++
				if line == "" {
					return errors.New(errors.ErrorTypeDecode, "blank line in object shard").
						WithDetail("shard", shard).
						WithDetail("line", lineNum)
				}
				v, err := c.DecodeFromText(line)
				if err != nil {
					return errors.Wrap(err, errors.ErrorTypeDecode, "failed to decode record").
						WithDetail("shard", shard).
						WithDetail("line", lineNum)
				}
				return emit(v)
			})
		})
	})
}

// MemoryCollection seeds a collection from a registry entry. Both ends
// run in the same process, so no serialization round-trip is involved.
func MemoryCollection[T any](reg *memtab.Registry, id string) *Collection[T] {
	return NewCollection("memory", id, func(ctx context.Context, emit func(T) error) error {
		elems, err := memtab.Retrieve[T](reg, id)
		if err != nil {
			return err
		}
		for _, v := range elems {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// eachShard resolves the shard set once and applies fn shard by shard.
// Order across shards follows the sorted shard list; order within a
// shard is whatever the backing reader produces.
func eachShard(ctx context.Context, fs *fileio.Client, dir string, fn func(shard string) error) error {
	shards, err := fs.ListShards(ctx, dir)
	if err != nil {
		return err
	}
	for _, shard := range shards {
		if err := fn(shard); err != nil {
			return err
		}
	}
	return nil
}
