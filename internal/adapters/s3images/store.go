// Package s3images stores hotel and room images in an S3 bucket.
package s3images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hotel_booking/internal/adapters/observability"
)

type Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// Options configures Open. Endpoint is set for S3-compatible servers (MinIO, localstack).
type Options struct {
	Bucket     string
	Region     string
	Endpoint   string
	PublicBase string
}

// Open loads AWS credentials from the default chain and builds a Store.
func Open(ctx context.Context, o Options) (*Store, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(o.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(NewClient(cfg, o.Endpoint), o.Bucket, publicBase(o)), nil
}

// NewClient builds an S3 client; a custom endpoint switches to path-style addressing.
func NewClient(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if endpoint != "" {
			so.BaseEndpoint = aws.String(endpoint)
			so.UsePathStyle = true
		}
		so.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
}

func New(client *s3.Client, bucket, publicBase string) *Store {
	return &Store{client: client, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}
}

func publicBase(o Options) string {
	switch {
	case o.PublicBase != "":
		return o.PublicBase
	case o.Endpoint != "":
		return strings.TrimRight(o.Endpoint, "/") + "/" + o.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", o.Bucket, o.Region)
	}
}

// Upload writes body under key and returns its public URL. The key is the
// last path segment of the URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	observability.ObserveExternal("s3", "put_object", statusOf(err), time.Since(start))
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicBase + "/" + key, nil
}

// Delete removes key. S3 reports success for keys that do not exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	observability.ObserveExternal("s3", "delete_object", statusOf(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}
