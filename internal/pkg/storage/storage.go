// Package storage writes objects to a single bucket on S3, GCS, MinIO or an
// in-process map.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrEmptyBucket = errors.New("storage: bucket is required")

// Storage is the write side of an object store bound to one bucket.
type Storage interface {
	io.Closer

	// Put stores r under key, replacing any object already there.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
}

type PutOptions struct {
	// Size is the content length, or 0 when unknown.
	Size        int64
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	UpdatedAt   time.Time
}
