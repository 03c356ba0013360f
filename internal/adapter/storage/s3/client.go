package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/strogmv/chatnotify/internal/port"
)

// PhotoResolver presigns s3:// photo references. http(s) URLs pass through unchanged.
type PhotoResolver struct {
	presign func(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	bucket  string
	expires time.Duration
}

func New(ctx context.Context, region, bucket, endpoint string, expires time.Duration) (*PhotoResolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	pc := s3.NewPresignClient(s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}))
	return &PhotoResolver{
		presign: func(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
			out, err := pc.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(expires))
			if err != nil {
				return "", err
			}
			return out.URL, nil
		},
		bucket:  bucket,
		expires: expires,
	}, nil
}

// ResolvePhotoURL implements port.PhotoURLResolver.
func (r *PhotoResolver) ResolvePhotoURL(ctx context.Context, ref string) (string, error) {
	if !strings.HasPrefix(ref, "s3://") {
		return ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse photo ref: %w", err)
	}
	bucket := u.Host
	if bucket == "" {
		bucket = r.bucket
	}
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", fmt.Errorf("photo ref %q has no bucket or key", ref)
	}
	signed, err := r.presign(ctx, bucket, key, r.expires)
	if err != nil {
		return "", fmt.Errorf("s3 presign get: %w", err)
	}
	return signed, nil
}

var _ port.PhotoURLResolver = (*PhotoResolver)(nil)
