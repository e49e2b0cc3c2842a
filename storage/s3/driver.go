// Package s3 stores document snapshots as objects of an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sharedcode/ocaf"
	"github.com/sharedcode/ocaf/storage"
)

const largeObjectMinSize = 10 * 1024 * 1024

// API is the part of the S3 client the driver uses. *s3.Client implements it.
type API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Driver is a storage.Driver over one bucket.
type Driver struct {
	client API
	bucket string
	prefix string
}

// New returns a driver storing objects under prefix in bucket.
func New(client API, bucket, prefix string) (*Driver, error) {
	if client == nil {
		return nil, fmt.Errorf("client parameter can't be nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name can't be empty")
	}
	return &Driver{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewFromOptions connects to the configured endpoint.
func NewFromOptions(opts ocaf.StorageOptions) (*Driver, error) {
	if opts.S3 == nil {
		return nil, fmt.Errorf("s3 driver needs the s3 configuration section")
	}
	return New(Connect(*opts.S3), opts.S3.Bucket, opts.KeyPrefix)
}

func (d *Driver) key(name string) string {
	return d.prefix + name
}

// Put uploads data, using multipart upload for large snapshots.
func (d *Driver) Put(ctx context.Context, name string, data []byte) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
		Body:   bytes.NewReader(data),
	}
	if len(data) > largeObjectMinSize {
		uploader := manager.NewUploader(d.client, func(u *manager.Uploader) {
			u.PartSize = largeObjectMinSize
		})
		_, err := uploader.Upload(ctx, in)
		return err
	}
	_, err := d.client.PutObject(ctx, in)
	return err
}

func (d *Driver) Get(ctx context.Context, name string) ([]byte, error) {
	result, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, storage.NotFound(name)
		}
		return nil, err
	}
	defer result.Body.Close()
	return io.ReadAll(result.Body)
}

func (d *Driver) Remove(ctx context.Context, name string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key(name)),
	})
	return err
}

func (d *Driver) List(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(d.prefix),
	})
	var r []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, o := range page.Contents {
			r = append(r, strings.TrimPrefix(aws.ToString(o.Key), d.prefix))
		}
	}
	slices.Sort(r)
	return r, nil
}
