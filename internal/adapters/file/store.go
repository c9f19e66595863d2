// Package file provides a filesystem StateStore. Each record is one JSON
// file under a base directory; writes are atomic so a crash mid-save never
// leaves a partially written record.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
)

// Store writes state records as JSON files in BasePath.
type Store struct {
	BasePath string
}

var _ ports.StateStore = (*Store)(nil)

// New creates a Store rooted at basePath, defaulting to ".botplayground/state".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".botplayground", "state")
	}
	return &Store{BasePath: basePath}
}

// path maps a storage key to a file path. Keys contain scope separators, so
// they are escaped into a single flat filename.
func (s *Store) path(key string) string {
	return filepath.Join(s.BasePath, url.PathEscape(key)+".json")
}

// Save persists the record atomically: write to a temp file in the same
// directory, fsync, then rename over the destination.
func (s *Store) Save(_ context.Context, key string, record domain.StateRecord) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// The temp file lives in the target directory so the rename stays on one
	// filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load reads the record for key, or domain.ErrRecordNotFound.
func (s *Store) Load(_ context.Context, key string) (domain.StateRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", domain.ErrRecordNotFound, key)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var record domain.StateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}

// Delete removes the record file. A missing file is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// List returns all stored keys in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list state directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		key, err := url.PathUnescape(name[:len(name)-len(".json")])
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
