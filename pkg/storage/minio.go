package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MinioConfig holds the S3 connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// Minio uploads artifacts to an S3-compatible bucket and hands out
// presigned download URLs.
type Minio struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinio connects to the endpoint and creates the bucket if it does not
// exist yet.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: endpoint, access key, secret key and bucket are required", ErrMissingConfig)
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 24 * time.Hour
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "storage: create minio client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: check bucket %s", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, eris.Wrapf(err, "storage: create bucket %s", cfg.Bucket)
		}
		zap.L().Info("created bucket", zap.String("bucket", cfg.Bucket))
	}

	return &Minio{client: client, bucket: cfg.Bucket, expiry: cfg.URLExpiry}, nil
}

// Put uploads data under name, overwriting any existing object.
func (m *Minio) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", eris.Wrapf(err, "storage: put %s/%s", m.bucket, name)
	}

	u, err := m.client.PresignedGetObject(ctx, m.bucket, name, m.expiry, url.Values{})
	if err != nil {
		return "", eris.Wrapf(err, "storage: presign %s/%s", m.bucket, name)
	}
	zap.L().Debug("stored object", zap.String("bucket", m.bucket), zap.String("key", name), zap.Int("bytes", len(data)))
	return u.String(), nil
}
