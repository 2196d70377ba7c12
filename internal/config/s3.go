// internal/config/s3.go
package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Settings describes where listing snapshots are written.
type S3Settings struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // set for S3-compatible stores such as MinIO
}

// S3Config holds S3 configuration
type S3Config struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

// NewS3Config builds a client from the settings. Static keys are used when
// both are set; otherwise the default AWS credential chain applies.
func NewS3Config(ctx context.Context, s S3Settings) (*S3Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	if s.AccessKeyID != "" && s.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Config{
		Client: client,
		Bucket: s.Bucket,
		Prefix: s.Prefix,
	}, nil
}

func (c *S3Config) Uploader() *manager.Uploader {
	return manager.NewUploader(c.Client)
}
