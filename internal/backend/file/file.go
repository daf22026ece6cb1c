// Package file implements kv.Store with one JSON file per key in a directory.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"tasker/internal/kv"
)

// validKey restricts keys to names that are safe as file names.
var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store keeps each key in <dir>/<key>.json.
type Store struct {
	dir string
	log *slog.Logger
}

// New creates a file store rooted at dir. The directory is created lazily on
// the first write with mode 0700.
func New(dir string, log *slog.Logger) *Store {
	return &Store{dir: dir, log: log}
}

// Path returns the file path used for key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read implements kv.Store.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	if !validKey.MatchString(key) {
		return "", false, fmt.Errorf("invalid key: %q", key)
	}
	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", s.Path(key), err)
	}
	s.log.Debug("file read", "path", s.Path(key), "bytes", len(data))
	return string(data), true, nil
}

// Write implements kv.Store. The value is written to a temporary file and
// renamed into place so readers never see a partial snapshot.
func (s *Store) Write(ctx context.Context, key, value string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key: %q", key)
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path(key), err)
	}

	s.log.Debug("file written", "path", s.Path(key), "bytes", len(value))
	return nil
}

// Close implements kv.Store.
func (s *Store) Close() error { return nil }

var _ kv.Store = (*Store)(nil)
