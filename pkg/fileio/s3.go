package fileio

import (
	"context"
	stderrors "errors"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// s3Client lazily builds the S3 client from the ambient AWS config
func (c *Client) s3Client(ctx context.Context) (*s3.Client, error) {
	c.s3Once.Do(func() {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if c.opts.S3Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(c.opts.S3Region))
		}

		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			c.s3Err = errors.Wrap(err, errors.ErrorTypeConnection, "failed to load AWS config")
			return
		}

		c.s3c = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if c.opts.S3Endpoint != "" {
				o.BaseEndpoint = aws.String(c.opts.S3Endpoint)
				o.UsePathStyle = true
			}
		})
		c.s3up = manager.NewUploader(c.s3c)
	})
	return c.s3c, c.s3Err
}

func (c *Client) listS3Shards(ctx context.Context, dir string) ([]string, error) {
	client, err := c.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket, prefix := splitObjectPath(dir)
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix + "/"),
	})

	var shards []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to list S3 objects").WithDetail("dataset", dir)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if isShard(path.Base(key)) {
				shards = append(shards, "s3://"+bucket+"/"+key)
			}
		}
	}
	return shards, nil
}

func (c *Client) openS3(ctx context.Context, shard string) (io.ReadCloser, error) {
	client, err := c.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket, key := splitObjectPath(shard)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "shard does not exist")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read S3 shard")
	}
	return out.Body, nil
}

func (c *Client) createS3(ctx context.Context, object string) (io.WriteCloser, error) {
	if _, err := c.s3Client(ctx); err != nil {
		return nil, err
	}
	bucket, key := splitObjectPath(object)
	return newS3ShardWriter(ctx, c.s3up, bucket, key), nil
}

// s3Writer streams shard bytes through a pipe into a managed upload,
// so a shard is never held whole in memory. Close completes the upload
// and surfaces its error.
type s3Writer struct {
	pw   *io.PipeWriter
	done chan error
}

func newS3ShardWriter(ctx context.Context, up *manager.Uploader, bucket, key string) *s3Writer {
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan error, 1)}
	go func() {
		_, err := up.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		if err != nil {
			// unblock a writer still pushing into the pipe
			pr.CloseWithError(err)
		}
		w.done <- err
	}()
	return w
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	if err := <-w.done; err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to upload S3 shard")
	}
	return nil
}
