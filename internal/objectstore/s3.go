// Package objectstore uploads listing images and avatars to an S3 compatible
// bucket and returns their public URLs.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

type Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

func (c Config) Enabled() bool {
	return c.Bucket != ""
}

type S3Store struct {
	client     s3iface.S3API
	bucket     string
	publicBase string
}

func NewS3Store(cfg Config) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("s3 bucket is not configured")
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return newS3Store(s3.New(sess), cfg), nil
}

func newS3Store(client s3iface.S3API, cfg Config) *S3Store {
	return &S3Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg),
	}
}

func publicBase(cfg Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Upload stores img under folder with a random name and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, folder string, img Image) (string, error) {
	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), img.Ext)

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(img.Data),
		ContentLength: aws.Int64(int64(len(img.Data))),
		ContentType:   aws.String(img.ContentType),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	slog.Info("Uploaded object", "bucket", s.bucket, "key", key, "size", len(img.Data))
	return s.publicBase + "/" + key, nil
}
