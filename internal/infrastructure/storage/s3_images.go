// Package storage resolves product image references to URLs a browser can load.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// S3ImageResolver turns object keys stored in products.image_url into
// presigned GET URLs. Works with AWS S3 and S3-compatible stores such as MinIO.
type S3ImageResolver struct {
	presignClient     *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ImageResolverOption configures an S3ImageResolver
type S3ImageResolverOption func(*S3ImageResolver)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) S3ImageResolverOption {
	return func(r *S3ImageResolver) {
		r.logger = logger
	}
}

// NewS3ImageResolver builds a resolver from configuration. Static credentials are
// used when configured, otherwise the default AWS credential chain.
func NewS3ImageResolver(ctx context.Context, cfg *config.StorageConfig, opts ...S3ImageResolverOption) (*S3ImageResolver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	r := &S3ImageResolver{
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.presignExpiration <= 0 {
		r.presignExpiration = 15 * time.Minute
	}
	return r, nil
}

// ResolveImageURL returns ref unchanged when it is already a URL, a presigned
// URL when it is an object key, and "" when presigning fails.
func (r *S3ImageResolver) ResolveImageURL(ctx context.Context, ref string) string {
	if ref == "" || IsAbsoluteURL(ref) {
		return ref
	}

	req, err := r.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "s3://"+r.bucket+"/")),
	}, s3.WithPresignExpires(r.presignExpiration))
	if err != nil {
		r.logger.Warn("presign product image failed", zap.String("key", ref), zap.Error(err))
		return ""
	}
	return req.URL
}

// Bucket returns the bucket name
func (r *S3ImageResolver) Bucket() string {
	return r.bucket
}

// PassthroughResolver is used when object storage is disabled; image_url
// values are served as stored.
type PassthroughResolver struct{}

// ResolveImageURL returns ref unchanged
func (PassthroughResolver) ResolveImageURL(_ context.Context, ref string) string {
	return ref
}

// IsAbsoluteURL reports whether ref can be handed to a browser as-is
func IsAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "/")
}
