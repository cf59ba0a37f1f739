package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

type GCSOptions struct {
	// CredentialsJSON is a service account key. It wins over CredentialsFile.
	CredentialsJSON []byte
	// CredentialsFile points at a service account JSON. Empty means ADC.
	CredentialsFile string
	// Endpoint overrides the API endpoint, e.g. for fake-gcs-server.
	Endpoint string
}

type GCS struct {
	client *gcs.Client
	bucket string
}

func NewGCS(ctx context.Context, bucket string, opts GCSOptions) (*GCS, error) {
	var clientOpts []option.ClientOption
	switch {
	case len(opts.CredentialsJSON) > 0:
		creds, err := google.CredentialsFromJSON(ctx, opts.CredentialsJSON, gcs.ScopeFullControl)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, option.WithCredentials(creds))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := gcs.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}

	if _, err := io.Copy(w, r); err != nil {
		return ObjectInfo{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, err
	}

	info := ObjectInfo{Bucket: g.bucket, Key: key, Size: opts.Size, ContentType: opts.ContentType}
	if attrs := w.Attrs(); attrs != nil {
		info.Size = attrs.Size
		info.ETag = attrs.Etag
		info.UpdatedAt = attrs.Updated
	}

	return info, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
