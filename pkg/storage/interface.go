// Package storage defines where published blocklists are written. It hides
// the destination behind a small interface so the publisher can be tested
// without touching the filesystem.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import (
	"context"
	"io"
)

// WriteFunc streams the content of a single object into w.
type WriteFunc func(w io.Writer) error

// Storage describes a destination for published files.
type Storage interface {
	// Put replaces the object called name with the bytes produced by write.
	// Implementations must not expose partially written content under name:
	// either the previous version or the complete new one is visible.
	Put(ctx context.Context, name string, write WriteFunc) error
	// Location returns a human-readable description of where objects end up,
	// e.g. the output directory.
	Location() string
}
