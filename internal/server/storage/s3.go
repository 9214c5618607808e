// Package storage keeps car images in an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/carshowroom/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Store uploads images into one bucket and hands out path-style public
// URLs (<base>/<bucket>/<key>), which is what MinIO serves.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, c *sc.Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	prefix, err := url.JoinPath(c.ImageBaseURL(), c.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("invalid image base url: %w", err)
	}

	return &S3Store{client: client, bucket: c.S3Bucket, prefix: prefix + "/"}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var nf *types.NotFound
	if !errors.As(err, &nf) {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// NewKey returns a fresh object key under the owner's prefix, e.g.
// cars/<owner>/2024/05/<uuid>.jpg.
func NewKey(ownerID, contentType string) string {
	ext := ""
	if mt := mimetype.Lookup(contentType); mt != nil {
		ext = mt.Extension()
	}
	d := time.Now().UTC()
	return fmt.Sprintf("cars/%s/%d/%02d/%s%s", ownerID, d.Year(), d.Month(), uuid.New(), ext)
}

// Upload stores data and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, ownerID, contentType string, data []byte) (string, error) {
	key := NewKey(ownerID, contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return s.prefix + key, nil
}

// Delete removes the object behind rawURL. URLs the store does not own are
// ignored.
func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key, ok := s.keyOf(rawURL)
	if !ok {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// keyOf extracts the object key from a URL handed out by Upload.
func (s *S3Store) keyOf(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, s.prefix)
	if !ok || key == "" || path.Clean("/"+key) != "/"+key {
		return "", false
	}
	return key, true
}
