package state

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/homelab-infra/unifictl/internal/platform/s3"
)

// objectStore is the part of the S3 client the store uses.
type objectStore interface {
	EnsureBucket(ctx context.Context, bucketName string, tags map[string]string) error
	GetObject(ctx context.Context, bucketName, key string) ([]byte, error)
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	DeleteObject(ctx context.Context, bucketName, key string) error
}

// S3Store keeps the outputs as a YAML object. The bucket is created on the
// first save with versioning enabled, so earlier applies stay retrievable.
type S3Store struct {
	client objectStore
	bucket string
	key    string
	tags   map[string]string
}

// NewS3Store returns a store writing to bucket/key.
func NewS3Store(client objectStore, bucket, key string, tags map[string]string) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key, tags: tags}
}

func (s *S3Store) Load(ctx context.Context) (*Outputs, error) {
	data, err := s.client.GetObject(ctx, s.bucket, s.key)
	if errors.Is(err, s3.ErrObjectNotFound) {
		return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, s.key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return decodeYAML(data)
}

func (s *S3Store) Save(ctx context.Context, out *Outputs) error {
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.client.EnsureBucket(ctx, s.bucket, s.tags); err != nil {
		return fmt.Errorf("failed to prepare state bucket: %w", err)
	}
	return s.client.PutObject(ctx, s.bucket, s.key, data)
}

// Delete removes the current version of the object. The bucket and older
// versions are kept.
func (s *S3Store) Delete(ctx context.Context) error {
	return s.client.DeleteObject(ctx, s.bucket, s.key)
}

func (s *S3Store) Close() error { return nil }
