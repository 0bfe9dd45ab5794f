package storage

import (
	"bytes"
	"context"
	"path"

	"calctl/core/config"
	"calctl/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client uploads database snapshots to an S3 bucket using static
// credentials from the backup configuration.
type S3Client struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Client(cfg *config.S3Config) *S3Client {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	})

	return &S3Client{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}
}

// Upload stores body under <prefix>/<name> in the configured bucket.
func (c *S3Client) Upload(ctx context.Context, name string, body []byte) error {
	key := path.Join(c.prefix, name)

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Error("S3Client:Upload", err)
		return err
	}

	logger.Info("uploaded snapshot", "bucket", c.bucket, "key", key, "bytes", len(body))
	return nil
}
