package fileio

import (
	"context"
	stderrors "errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// gcsClient lazily builds the GCS client
func (c *Client) gcsClient(ctx context.Context) (*storage.Client, error) {
	c.gcsOnce.Do(func() {
		var opts []option.ClientOption
		if c.opts.GCSCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(c.opts.GCSCredentialsFile))
		}

		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			c.gcsErr = errors.Wrap(err, errors.ErrorTypeConnection, "failed to create GCS client")
			return
		}
		c.gcsc = client
	})
	return c.gcsc, c.gcsErr
}

func (c *Client) listGCSShards(ctx context.Context, dir string) ([]string, error) {
	client, err := c.gcsClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket, prefix := splitObjectPath(dir)
	it := client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix + "/"})

	var shards []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to list GCS objects").WithDetail("dataset", dir)
		}
		if isShard(path.Base(attrs.Name)) {
			shards = append(shards, "gs://"+bucket+"/"+attrs.Name)
		}
	}
	return shards, nil
}

func (c *Client) openGCS(ctx context.Context, shard string) (io.ReadCloser, error) {
	client, err := c.gcsClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket, key := splitObjectPath(shard)
	r, err := client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if stderrors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "shard does not exist")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read GCS shard")
	}
	return r, nil
}

func (c *Client) createGCS(ctx context.Context, object string) (io.WriteCloser, error) {
	client, err := c.gcsClient(ctx)
	if err != nil {
		return nil, err
	}
	bucket, key := splitObjectPath(object)
	return client.Bucket(bucket).Object(key).NewWriter(ctx), nil
}
