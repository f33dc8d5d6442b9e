package builder

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"blocklists/internal/extract"
	"blocklists/pkg/domain"
	"blocklists/pkg/logger"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Source is a single input file of a category.
type Source struct {
	Category string
	Path     string
	Format   extract.Format
}

// Sources lists the input files of category c under root. Directories are
// walked recursively and only CSV and JSON files are kept from them. Listed
// text files are kept when they exist. Missing directories and files
// contribute nothing.
func Sources(ctx context.Context, root string, c domain.Category) ([]Source, error) {
	var sources []Source

	for _, dir := range c.SourceDirs {
		dir = filepath.Join(root, dir)
		if !exists(ctx, dir, true) {
			continue
		}

		if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if format, ok := extract.FormatOf(path); ok {
				sources = append(sources, Source{Category: c.Slug, Path: path, Format: format})
			}

			return nil
		}); err != nil {
			return nil, errors.Wrapf(err, "could not walk %s", dir)
		}
	}

	for _, file := range c.SourceFiles {
		file = filepath.Join(root, file)
		if exists(ctx, file, false) {
			sources = append(sources, Source{Category: c.Slug, Path: file, Format: extract.FormatText})
		}
	}

	return sources, nil
}

func exists(ctx context.Context, path string, dir bool) bool {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug(ctx, "source not found", zap.String("path", path))

		return false
	case err != nil:
		logger.Warn(ctx, "could not stat source", zap.String("path", path), zap.Error(err))

		return false
	case info.IsDir() != dir:
		logger.Warn(ctx, "source has unexpected type", zap.String("path", path), zap.Bool("dir", info.IsDir()))

		return false
	}

	return true
}
