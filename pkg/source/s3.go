package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 serves documents from one S3 bucket, keyed by object key.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 source using the ambient AWS credential chain.
func NewS3(ctx context.Context, bucket string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &S3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// Fetch downloads the object under key and returns it as a string.
// A missing object maps to ErrNotFound.
func (s *S3) Fetch(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return "", fmt.Errorf("s3://%s/%s: %w", s.bucket, key, ErrNotFound)
		}
		return "", fmt.Errorf("failed to fetch s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
	}
	return string(b), nil
}

// Put uploads text under key. The extraction pipeline uses it to publish
// freshly extracted handbook text.
func (s *S3) Put(ctx context.Context, key, text string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(text),
	})
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
