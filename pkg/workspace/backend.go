// Package workspace persists the in-memory host store between runs.
//
// A [Workspace] wraps a [memory.Store] and a [Backend]. Opening a workspace
// restores the last snapshot saved under its key; [Workspace.Commit] saves a
// new snapshot when the store changed. Backends only move opaque bytes:
//   - null: keeps nothing, every run starts empty
//   - file: one JSON file per key under a directory (CLI default)
//   - sqlite: a single table in a local database file (gorm)
//   - redis: one string key per workspace
//   - mongo: one document per workspace
package workspace

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by [OpenBackend].
const (
	BackendNull   = "null"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backend stores snapshots by key.
type Backend interface {
	// Name identifies the backend in logs and hooks.
	Name() string

	// Load returns the snapshot saved under key. ok is false when there is
	// none.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)

	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot under key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// BackendConfig selects and configures a backend.
type BackendConfig struct {
	Kind string

	// Path is the directory of the file backend or the database file of the
	// sqlite backend.
	Path string

	RedisAddr     string
	MongoURI      string
	MongoDatabase string
}

// OpenBackend connects the backend named by cfg.Kind.
func OpenBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", BackendFile:
		return NewFileBackend(cfg.Path)
	case BackendNull, "none":
		return NewNullBackend(), nil
	case BackendSQLite:
		return NewSQLiteBackend(cfg.Path)
	case BackendRedis:
		return NewRedisBackend(ctx, cfg.RedisAddr)
	case BackendMongo:
		return NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown workspace backend %q", cfg.Kind)
	}
}
