// Package gcs implements a Google Cloud Storage blob store used to mirror
// published tracker documents to a bucket.
package gcs

import (
	"context"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
)

// Config captures the parameters for the GCS mirror.
type Config struct {
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// BlobStore uploads documents to a GCS bucket.
type BlobStore struct {
	client *storage.Client
	cfg    Config
}

// New initializes a GCS client and verifies bucket access. Authentication is
// handled via Application Default Credentials.
func New(ctx context.Context, cfg Config) (*BlobStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	// Fail fast on startup if the bucket is misconfigured.
	if _, err := client.Bucket(cfg.Bucket).Attrs(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("get bucket %q attributes: %w", cfg.Bucket, err)
	}

	return &BlobStore{client: client, cfg: cfg}, nil
}

// Put uploads a document to the bucket under the configured prefix.
func (s *BlobStore) Put(ctx context.Context, name string, data []byte) error {
	object := name
	if s.cfg.Prefix != "" {
		object = path.Join(s.cfg.Prefix, name)
	}

	wc := s.client.Bucket(s.cfg.Bucket).Object(object).NewWriter(ctx)
	wc.ContentType = "application/yaml"

	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fmt.Errorf("write object %s: %w", object, err)
	}
	// Close finalizes the upload and flushes buffered data.
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close writer for object %s: %w", object, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *BlobStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close GCS client: %w", err)
	}
	return nil
}
