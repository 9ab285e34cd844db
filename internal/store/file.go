package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File keeps each key as a JSON file under a root directory.
// The key "user/42/tasks" lives at <root>/user/42/tasks.json.
type File struct {
	root string
}

// OpenFile creates root if needed and returns a file-backed KV.
func OpenFile(root string) (*File, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &File{root: root}, nil
}

func (f *File) path(key string) (string, error) {
	rel := filepath.FromSlash(key) + ".json"
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("key %q escapes data directory", key)
	}
	return filepath.Join(f.root, rel), nil
}

// Get reads the file for key.
func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, true, nil
}

// Set writes value to a temp file and renames it over the key's file.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("replacing %s: %w", p, err)
	}
	return nil
}

// Remove deletes the key's file.
func (f *File) Remove(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", p, err)
	}
	return nil
}

// Close is a no-op.
func (f *File) Close() error { return nil }
