package fileio

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nova/pkg/errors"
)

// fakeUploadClient captures single-part uploads; the payloads in these
// tests stay below the part size, so only PutObject is exercised.
type fakeUploadClient struct {
	mu     sync.Mutex
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeUploadClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeUploadClient) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New(errors.ErrorTypeInternal, "multipart upload not expected")
}

func (f *fakeUploadClient) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New(errors.ErrorTypeInternal, "multipart upload not expected")
}

func (f *fakeUploadClient) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New(errors.ErrorTypeInternal, "multipart upload not expected")
}

func (f *fakeUploadClient) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New(errors.ErrorTypeInternal, "multipart upload not expected")
}

func TestS3ShardWriterStreamsThroughUploader(t *testing.T) {
	fake := &fakeUploadClient{}
	up := manager.NewUploader(fake)

	w := newS3ShardWriter(context.Background(), up, "bucket", "data/out/part-00000")
	_, err := w.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("c\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "bucket", fake.bucket)
	assert.Equal(t, "data/out/part-00000", fake.key)
	assert.Equal(t, "a\nb\nc\n", string(fake.body))
}

func TestS3ShardWriterSurfacesUploadError(t *testing.T) {
	fake := &fakeUploadClient{err: errors.New(errors.ErrorTypeConnection, "bucket gone")}
	up := manager.NewUploader(fake)

	w := newS3ShardWriter(context.Background(), up, "bucket", "data/out/part-00000")
	_, err := w.Write([]byte("x\n"))
	require.NoError(t, err)

	err = w.Close()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConnection))
}
