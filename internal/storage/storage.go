// Package storage uploads finished books to an S3-compatible bucket and
// returns public download URLs. Backblaze B2's S3 gateway is the default
// target but any S3 endpoint works.
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config identifies the target bucket and its credentials.
type Config struct {
	Endpoint string
	Region   string
	Bucket   string
	KeyID    string
	AppKey   string
}

// Uploader stores rendered books.
type Uploader struct {
	client   *s3.Client
	endpoint string
	bucket   string
}

// NewUploader builds an uploader for one bucket. The endpoint is addressed
// path-style, which the B2 S3 gateway requires.
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: endpoint and bucket are required")
	}
	if cfg.Region == "" {
		cfg.Region = regionFromEndpoint(cfg.Endpoint)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.AppKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &Uploader{
		client:   client,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		bucket:   cfg.Bucket,
	}, nil
}

// Upload stores the file at path under filename and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, path, filename string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(filename),
		Body:        f,
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filename, err)
	}

	return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, filename), nil
}

// regionFromEndpoint extracts the region from a B2 S3 endpoint such as
// https://s3.us-east-005.backblazeb2.com. Unrecognized endpoints get
// us-east-1, which S3-compatible gateways accept for signing.
func regionFromEndpoint(endpoint string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	parts := strings.Split(host, ".")
	if len(parts) >= 3 && parts[0] == "s3" {
		return parts[1]
	}
	return "us-east-1"
}
