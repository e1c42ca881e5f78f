package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Config contains minimal configuration for creating an S3 client.
// Empty values fall back to the standard AWS config/credential chain.
type S3Config struct {
	Region string
	// Profile selects a named shared config/credentials profile
	Profile string
	// UsePathStyle forces path-style addressing (MinIO and friends)
	UsePathStyle bool
}

// ObjectStore is the part of S3 the publisher needs
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// S3 wraps the AWS SDK for Go v2 S3 client
type S3 struct {
	client *s3.Client
}

// NewS3 creates an S3 wrapper using the default AWS configuration chain
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: c}, nil
}

// Put uploads an object to bucket/key
func (s *S3) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err := s.client.PutObject(ctx, in)
	return err
}

// Exists returns true if HeadObject succeeds and false on 404/NotFound
func (s *S3) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *http.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}
	return false, err
}

// S3Publisher uploads videos to <prefix><category>/<file>
type S3Publisher struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewS3Publisher normalises prefix to either "" or "dir/"
func NewS3Publisher(store ObjectStore, bucket, prefix string) *S3Publisher {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Publisher{store: store, bucket: bucket, prefix: prefix}
}

func (p *S3Publisher) Name() string { return "s3" }

// Key is the object key for an item
func (p *S3Publisher) Key(item Item) string {
	return p.prefix + path.Join(item.Category, item.FileName)
}

// Publish uploads the file unless an object already exists at its key
func (p *S3Publisher) Publish(ctx context.Context, item Item) (string, error) {
	key := p.Key(item)
	ref := fmt.Sprintf("s3://%s/%s", p.bucket, key)

	exists, err := p.store.Exists(ctx, p.bucket, key)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", ref, err)
	}
	if exists {
		log.Printf("  ⏭️  %s already uploaded", ref)
		return ref, nil
	}

	f, err := os.Open(item.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer f.Close()

	if err := p.store.Put(ctx, p.bucket, key, f, "video/mp4"); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", ref, err)
	}
	log.Printf("  📤 Uploaded %s", ref)
	return ref, nil
}
