// Package fileio is the file access layer for Nova datasets.
//
// A dataset path denotes a directory (local, s3:// or gs://) whose shard
// files match path/part-*. Shards ending in .gz are decompressed
// transparently on read.
package fileio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/gzip"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// ShardPattern is the wildcard shard files must match under a dataset directory
const ShardPattern = "part-*"

// Options configures the file access layer
type Options struct {
	// S3Region is the AWS region for s3:// paths
	S3Region string
	// S3Endpoint overrides the S3 endpoint (MinIO, localstack)
	S3Endpoint string
	// GCSCredentialsFile is a service account key file for gs:// paths
	GCSCredentialsFile string
}

// Client resolves dataset directories to shard files and opens them
// for reading and writing. Remote store clients are created lazily on
// first use, so a purely local client never touches cloud credentials.
type Client struct {
	opts Options

	s3Once sync.Once
	s3c    *s3.Client
	s3up   *manager.Uploader
	s3Err  error

	gcsOnce sync.Once
	gcsc    *storage.Client
	gcsErr  error
}

// New creates a file access client
func New(opts Options) *Client {
	return &Client{opts: opts}
}

// scheme classifies a dataset path by its URI scheme
func scheme(p string) string {
	switch {
	case strings.HasPrefix(p, "s3://"):
		return "s3"
	case strings.HasPrefix(p, "gs://"):
		return "gs"
	default:
		return "file"
	}
}

// splitObjectPath splits "s3://bucket/a/b" into ("bucket", "a/b")
func splitObjectPath(p string) (bucket, key string) {
	trimmed := p
	if i := strings.Index(trimmed, "://"); i >= 0 {
		trimmed = trimmed[i+3:]
	}
	bucket, key, _ = strings.Cut(trimmed, "/")
	return bucket, strings.TrimSuffix(key, "/")
}

// isShard reports whether an object or file name is a dataset shard
func isShard(name string) bool {
	ok, _ := path.Match(ShardPattern, name)
	if !ok {
		// allow compressed shards: part-00000.gz
		ok, _ = path.Match(ShardPattern+".gz", name)
	}
	return ok
}

// ShardName returns the canonical name of the n-th shard of a dataset
func ShardName(n int) string {
	return fmt.Sprintf("part-%05d", n)
}

// ListShards resolves a dataset directory to the sorted set of concrete
// shard paths matching dir/part-*. A directory that does not exist or
// contains no shards yields a not-found error, never an empty result.
func (c *Client) ListShards(ctx context.Context, dir string) ([]string, error) {
	var shards []string
	var err error

	switch scheme(dir) {
	case "s3":
		shards, err = c.listS3Shards(ctx, dir)
	case "gs":
		shards, err = c.listGCSShards(ctx, dir)
	default:
		shards, err = listLocalShards(dir)
	}
	if err != nil {
		return nil, err
	}
	if len(shards) == 0 {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "no shards matching %s under %s", ShardPattern, dir)
	}

	sort.Strings(shards)
	return shards, nil
}

func listLocalShards(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "dataset directory does not exist")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to stat dataset directory")
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "dataset path %s is not a directory", dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, ShardPattern))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "shard glob failed")
	}
	return matches, nil
}

// OpenForRead opens a single shard for reading. Shards named *.gz are
// decompressed transparently.
func (c *Client) OpenForRead(ctx context.Context, shard string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	var err error

	switch scheme(shard) {
	case "s3":
		rc, err = c.openS3(ctx, shard)
	case "gs":
		rc, err = c.openGCS(ctx, shard)
	default:
		rc, err = openLocal(shard)
	}
	if err != nil {
		return nil, err
	}
	shardsOpened.WithLabelValues(scheme(shard)).Inc()

	if strings.HasSuffix(shard, ".gz") {
		gz, gzErr := gzip.NewReader(rc)
		if gzErr != nil {
			rc.Close()
			return nil, errors.Wrap(gzErr, errors.ErrorTypeDecode, "failed to open gzip shard")
		}
		return &gzipReadCloser{gz: gz, under: rc}, nil
	}
	return rc, nil
}

func openLocal(shard string) (io.ReadCloser, error) {
	f, err := os.Open(shard) //nolint:gosec // G304: shard paths come from ListShards
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "shard does not exist")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to open shard")
	}
	return f, nil
}

// CreateShard creates the n-th shard of a dataset directory for writing.
// When compress is true the shard is written gzip-compressed with a .gz
// suffix. The returned writer must be closed to finalize the shard.
func (c *Client) CreateShard(ctx context.Context, dir string, n int, compress bool) (io.WriteCloser, error) {
	name := ShardName(n)
	if compress {
		name += ".gz"
	}

	var wc io.WriteCloser
	var err error

	switch scheme(dir) {
	case "s3":
		wc, err = c.createS3(ctx, dir+"/"+name)
	case "gs":
		wc, err = c.createGCS(ctx, dir+"/"+name)
	default:
		wc, err = createLocal(filepath.Join(dir, name))
	}
	if err != nil {
		return nil, err
	}

	if compress {
		return &gzipWriteCloser{gz: gzip.NewWriter(wc), under: wc}, nil
	}
	return wc, nil
}

func createLocal(p string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create dataset directory")
	}
	f, err := os.Create(p) //nolint:gosec // G304: path is built from caller-controlled dataset dir
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to create shard")
	}
	return f, nil
}

// ReadLines streams a shard line by line into fn. Record order within a
// shard is preserved. fn returning an error aborts the read.
func (c *Client) ReadLines(ctx context.Context, shard string, fn func(line string) error) error {
	rc, err := c.OpenForRead(ctx, shard)
	if err != nil {
		return err
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "shard scan failed").WithDetail("shard", shard)
	}
	return nil
}

const maxLineBytes = 16 * 1024 * 1024

type gzipReadCloser struct {
	gz    *gzip.Reader
	under io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	if err := g.under.Close(); err != nil {
		return err
	}
	return gzErr
}

type gzipWriteCloser struct {
	gz    *gzip.Writer
	under io.WriteCloser
}

func (g *gzipWriteCloser) Write(p []byte) (int, error) { return g.gz.Write(p) }

func (g *gzipWriteCloser) Close() error {
	if err := g.gz.Close(); err != nil {
		g.under.Close()
		return err
	}
	return g.under.Close()
}
