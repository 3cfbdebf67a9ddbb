package state

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/homelab-infra/unifictl/internal/config"
	"github.com/homelab-infra/unifictl/internal/platform/s3"
	"github.com/homelab-infra/unifictl/internal/util/tags"
)

// Environment variables holding static keys for the s3 backend.
const (
	AccessKeyEnv = "UNIFICTL_STATE_ACCESS_KEY_ID"
	SecretKeyEnv = "UNIFICTL_STATE_SECRET_ACCESS_KEY"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no state found")

// Store loads and saves the outputs of one stack.
type Store interface {
	Load(ctx context.Context) (*Outputs, error)
	Save(ctx context.Context, out *Outputs) error
	Delete(ctx context.Context) error
	Close() error
}

// HistoryStore is a Store that keeps every saved version.
type HistoryStore interface {
	Store
	// History returns up to limit saved outputs, newest first.
	History(ctx context.Context, limit int) ([]*Outputs, error)
}

// NewStore opens the backend selected by cfg.State.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.State.Backend {
	case "", config.StateBackendFile:
		path := cfg.State.Path
		if path == "" {
			path = config.DefaultStatePath
		}
		return NewFileStore(path), nil
	case config.StateBackendS3:
		opts, err := S3Options(cfg)
		if err != nil {
			return nil, err
		}
		client, err := s3.NewClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.State.Bucket, cfg.State.Key, tags.NewBuilder(cfg.Stack).Merge(cfg.Tags).Build()), nil
	case config.StateBackendSQLite:
		path := cfg.State.Path
		if path == "" {
			path = config.DefaultSQLitePath
		}
		return OpenSQLiteStore(path, cfg.Stack)
	default:
		return nil, fmt.Errorf("unsupported state backend %q", cfg.State.Backend)
	}
}

// S3Options returns the client options of the s3 backend. Static keys come
// from the environment and must be set together.
func S3Options(cfg *config.Config) (s3.Options, error) {
	opts := s3.Options{
		Region:    cfg.Region,
		Profile:   cfg.AWS.Profile,
		Endpoint:  cfg.State.Endpoint,
		AccessKey: os.Getenv(AccessKeyEnv),
		SecretKey: os.Getenv(SecretKeyEnv),
	}
	if (opts.AccessKey == "") != (opts.SecretKey == "") {
		return s3.Options{}, fmt.Errorf("%s and %s must be set together", AccessKeyEnv, SecretKeyEnv)
	}
	return opts, nil
}
