package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Options struct {
	Backend       string
	SQLitePath    string
	FileDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open builds the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if dir := filepath.Dir(opts.SQLitePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(opts.SQLitePath)
	case BackendFile:
		return NewFileStore(opts.FileDir)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

// WatchPath is the on-disk path whose changes mean another process wrote key, or "" when the
// backend has nothing to watch.
func WatchPath(store Store, opts Options, key string) string {
	switch s := store.(type) {
	case *SQLiteStore:
		return opts.SQLitePath
	case *FileStore:
		p, err := s.Path(key)
		if err != nil {
			return ""
		}
		return p
	default:
		return ""
	}
}
