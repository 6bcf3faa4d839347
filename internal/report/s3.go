package report

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/flexprice/stripe-migrate/internal/config"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
)

// Uploader archives a finished report.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte) (string, error)
}

// s3PutObjectAPI is the slice of *s3.Client the uploader needs.
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores reports under the configured bucket and prefix.
type S3Uploader struct {
	client s3PutObjectAPI
	bucket string
	prefix string
}

// NewS3Uploader builds an uploader from cfg. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies. A
// custom endpoint switches to path-style addressing for S3-compatible stores.
func NewS3Uploader(ctx context.Context, cfg config.ReportConfig) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load AWS configuration for report upload").
			Mark(ierr.ErrConfiguration)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

func newS3Uploader(client s3PutObjectAPI, bucket, prefix string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Upload puts body at prefix/key and returns its s3:// location.
func (u *S3Uploader) Upload(ctx context.Context, key string, body []byte) (string, error) {
	objectKey := path.Join(u.prefix, key)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to upload run report").
			WithReportableDetails(map[string]interface{}{
				"bucket": u.bucket,
				"key":    objectKey,
			}).
			Mark(ierr.ErrSystem)
	}
	return "s3://" + u.bucket + "/" + objectKey, nil
}
