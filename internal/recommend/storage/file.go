// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores each key as a file under a base directory.
// Writes go to a temporary file that is renamed into place, so readers see
// either the old or the new model.
type FileBackend struct {
	baseDir string
}

// NewFileBackend creates the base directory if needed.
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileBackend{baseDir: baseDir}, nil
}

// Name implements Backend.
func (f *FileBackend) Name() string { return "file" }

// path maps a key to a file name. Path separators in keys are flattened.
func (f *FileBackend) path(key string) (string, error) {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(key)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.baseDir, name), nil
}

// Get implements Backend.
func (f *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p) //nolint:gosec // path is confined to baseDir
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return data, nil
}

// Set implements Backend.
func (f *FileBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("rename model file: %w", err)
	}
	return nil
}

// Close implements Backend.
func (f *FileBackend) Close() error { return nil }
