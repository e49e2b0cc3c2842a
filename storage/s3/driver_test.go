package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
)

type fakeBucket struct {
	lock    sync.Mutex
	objects map[string][]byte
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

var errMultipart = errors.New("multipart not supported by fake")

func (f *fakeBucket) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	ba, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	f.objects[aws.ToString(in.Key)] = ba
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	ba, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(ba))}, nil
}

func (f *fakeBucket) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeBucket) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func (f *fakeBucket) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errMultipart
}
func (f *fakeBucket) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errMultipart
}
func (f *fakeBucket) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errMultipart
}
func (f *fakeBucket) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errMultipart
}

func TestDriver(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBucket()
	d, err := New(fb, "docs", "ocaf/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "beta", []byte("b")))
	require.NoError(t, d.Put(ctx, "alpha", []byte("a")))
	fb.objects["unrelated"] = []byte("x")

	ba, err := d.Get(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), ba)

	names, err := d.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	require.NoError(t, d.Remove(ctx, "alpha"))
	_, err = d.Get(ctx, "alpha")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, "b", "")
	assert.Error(t, err)
	_, err = New(newFakeBucket(), "", "")
	assert.Error(t, err)
	_, err = NewFromOptions(ocaf.StorageOptions{Driver: ocaf.DriverS3})
	assert.Error(t, err)
}
