// Package fsstorage implements storage.Storage on top of a local directory.
package fsstorage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blocklists/pkg/storage"
)

// Options configures the filesystem storage.
type Options struct {
	// Dir is the output directory. It is created if missing.
	Dir string
	// FileMode is applied to every written file. Zero means 0644.
	FileMode os.FileMode
}

// FS writes objects as files in a single directory.
type FS struct {
	dir  string
	mode os.FileMode
}

var _ storage.Storage = (*FS)(nil)

// New creates the output directory if needed and returns a storage writing into it.
func New(opts Options) (*FS, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory %q: %w", opts.Dir, err)
	}

	return &FS{dir: opts.Dir, mode: opts.FileMode}, nil
}

// Location returns the output directory.
func (s *FS) Location() string { return s.dir }

// Put writes the object through a temp file in the output directory, then
// renames it over the target so readers never see a truncated file.
func (s *FS) Put(ctx context.Context, name string, write storage.WriteFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid object name %q", name)
	}

	f, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file for %s: %w", name, err)
	}
	tmp := f.Name()
	// no-op once the rename succeeded
	defer func() { _ = os.Remove(tmp) }()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		_ = f.Close()

		return fmt.Errorf("could not write %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()

		return fmt.Errorf("could not flush %s: %w", name, err)
	}
	if err := f.Chmod(s.mode); err != nil {
		_ = f.Close()

		return fmt.Errorf("could not chmod %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close %s: %w", name, err)
	}

	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("could not replace %s: %w", name, err)
	}

	return nil
}
