// Package minio provides a MinIO (S3-compatible) implementation of
// output.Sink. Each descriptor becomes one object named
// <prefix><table>.<ext> in the configured bucket.
package minio

import (
	"bytes"
	"context"
	"path"

	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/output"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const contentType = "text/javascript; charset=utf-8"

// Sink uploads artifacts with PutObject. It is safe for concurrent use.
type Sink struct {
	client *miniogo.Client
	bucket string
	prefix string
	ext    string
}

// New connects to MinIO, creating the bucket when it does not exist yet.
func New(ctx context.Context, cfg *output.MinIOConfig, ext string) (*Sink, error) {
	if cfg.Bucket == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "minio output requires a bucket")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	s := &Sink{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, ext: ext}
	if err := s.ensureBucket(ctx, cfg.Region); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) ensureBucket(ctx context.Context, region string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return mapError(err, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{Region: region}); err != nil {
		return mapError(err, "failed to create bucket")
	}
	return nil
}

// ObjectName is the key the artifact of table is stored under.
func (s *Sink) ObjectName(table string) string {
	return objectName(s.prefix, table, s.ext)
}

func objectName(prefix, table, ext string) string {
	name := output.FileName(table, ext)
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func (s *Sink) Location(table string) string {
	return "s3://" + s.bucket + "/" + s.ObjectName(table)
}

// Write uploads content, replacing any previous object for table.
func (s *Sink) Write(ctx context.Context, table string, content []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.ObjectName(table),
		bytes.NewReader(content), int64(len(content)),
		miniogo.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return errs.Wrap(errs.ErrKindWrite, "upload "+s.Location(table), mapError(err, "put object"))
	}
	return nil
}

// Close is a no-op; the SDK client holds no persistent connections.
func (s *Sink) Close() error {
	return nil
}
