package pipeline

import (
	"bufio"
	"context"

	gojson "github.com/goccy/go-json"
	"github.com/linkedin/goavro/v2"

	"github.com/ajitpratap0/nova/pkg/codec"
	"github.com/ajitpratap0/nova/pkg/errors"
	"github.com/ajitpratap0/nova/pkg/fileio"
)

// WriteText materializes records into dir as a single newline-delimited
// text shard
func WriteText(ctx context.Context, fs *fileio.Client, dir string, records []string, compress bool) error {
	return writeLines(ctx, fs, dir, compress, len(records), func(i int) (string, error) {
		return records[i], nil
	})
}

// WriteRows materializes structured rows into dir as one JSON document
// per line
func WriteRows(ctx context.Context, fs *fileio.Client, dir string, rows []Row, compress bool) error {
	return writeLines(ctx, fs, dir, compress, len(rows), func(i int) (string, error) {
		data, err := gojson.Marshal(rows[i])
		if err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeData, "failed to encode row")
		}
		return string(data), nil
	})
}

// WriteObjects materializes typed records into dir, one base64-encoded
// serialized record per line, using c. Reading the dataset back must
// use the identical codec.
func WriteObjects[T any](ctx context.Context, fs *fileio.Client, dir string, c codec.Codec[T], elems []T, compress bool) error {
	return writeLines(ctx, fs, dir, compress, len(elems), func(i int) (string, error) {
		return c.EncodeToText(elems[i])
	})
}

// WriteAvro materializes rows into dir as a single Avro object
// container file shard with the given writer schema
func WriteAvro(ctx context.Context, fs *fileio.Client, dir, schema string, rows []Row) error {
	wc, err := fs.CreateShard(ctx, dir, 0, false)
	if err != nil {
		return err
	}

	ocfw, err := goavro.NewOCFWriter(goavro.OCFConfig{W: wc, Schema: schema})
	if err != nil {
		wc.Close()
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create Avro writer")
	}

	for _, row := range rows {
		if err := ocfw.Append([]interface{}{row}); err != nil {
			wc.Close()
			return errors.Wrap(err, errors.ErrorTypeData, "failed to write Avro record")
		}
	}
	return wc.Close()
}

func writeLines(ctx context.Context, fs *fileio.Client, dir string, compress bool, n int, line func(i int) (string, error)) error {
	wc, err := fs.CreateShard(ctx, dir, 0, compress)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(wc)
	for i := 0; i < n; i++ {
		s, err := line(i)
		if err != nil {
			wc.Close()
			return err
		}
		if _, err := w.WriteString(s); err != nil {
			wc.Close()
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write shard")
		}
		if err := w.WriteByte('\n'); err != nil {
			wc.Close()
			return errors.Wrap(err, errors.ErrorTypeInternal, "failed to write shard")
		}
	}
	if err := w.Flush(); err != nil {
		wc.Close()
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to flush shard")
	}
	return wc.Close()
}
