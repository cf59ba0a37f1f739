package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverS3     = "s3"
	DriverGCS    = "gcs"
	DriverMinIO  = "minio"
	DriverMemory = "memory"
)

var ErrUnknownDriver = errors.New("storage: unknown driver")

type FactoryOptions struct {
	Bucket string
	S3     S3Options
	GCS    GCSOptions
	MinIO  MinIOOptions
}

// NewFromDriver builds the Storage selected by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	d := strings.ToLower(strings.TrimSpace(driver))
	if d != DriverMemory && opts.Bucket == "" {
		return nil, ErrEmptyBucket
	}

	switch d {
	case DriverS3:
		return NewS3(ctx, opts.Bucket, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.Bucket, opts.GCS)
	case DriverMinIO:
		return NewMinIO(opts.Bucket, opts.MinIO)
	case DriverMemory:
		return NewMemory(opts.Bucket), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
