package s3

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sharedcode/ocaf"
)

// Connect returns a client for an S3 compatible endpoint, e.g. a minio server.
func Connect(config ocaf.S3Config) *s3.Client {
	return s3.NewFromConfig(aws.Config{Region: config.Region}, func(o *s3.Options) {
		if config.HostEndpointURL != "" {
			o.BaseEndpoint = aws.String(config.HostEndpointURL)
			o.UsePathStyle = true
		}
		o.Credentials = credentials.NewStaticCredentialsProvider(config.Username, config.Password, "")
	})
}
