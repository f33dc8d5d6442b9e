// Package builder aggregates the sources of every category into a single
// deduplicated domain set and hands it to a publisher.
package builder

import (
	"context"
	"io/fs"
	"os"
	"time"

	"blocklists/internal/config"
	"blocklists/internal/extract"
	"blocklists/pkg/domain"
	"blocklists/pkg/logger"
	"blocklists/pkg/metrics"
	"blocklists/pkg/serrors"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configure a build run.
type Options struct {
	// SourcesDir is the root that category sources are resolved against.
	SourcesDir string
	// Workers is the number of files extracted concurrently.
	Workers int
	// Categories are the lists to build.
	Categories []domain.Category
}

// NewOptions constructs an Options value from the provided application config
// with the default category table.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SourcesDir: cfg.Paths.Sources,
		Workers:    cfg.Build.Workers,
		Categories: domain.DefaultCategories(),
	}
}

// CategoryReport summarizes the build of one category.
type CategoryReport struct {
	Category    domain.Category
	Domains     int
	Fingerprint string
	// Files is the number of source files found for the category.
	Files int
	// Skipped lists the source files that contributed nothing because they
	// could not be parsed.
	Skipped []string
}

// Report summarizes a build run.
type Report struct {
	Categories []CategoryReport
	// Location is where the lists were published.
	Location string
}

// Builder runs the extraction and publication of all categories.
type Builder struct {
	options    Options
	publisher  Publisher
	extractors map[extract.Format]extract.Extractor
	recorder   *metrics.Recorder
}

// New creates a Builder. extractors must hold an entry for every format a
// source can have.
func New(publisher Publisher,
	extractors map[extract.Format]extract.Extractor,
	recorder *metrics.Recorder,
	options Options) *Builder {
	if options.Workers < 1 {
		options.Workers = 1
	}

	return &Builder{
		options:    options,
		publisher:  publisher,
		extractors: extractors,
		recorder:   recorder,
	}
}

type result struct {
	set     domain.Set
	skipped bool
}

// Build extracts every source file, merges the domains of each category and
// publishes them. Files that cannot be parsed are logged and skipped, any
// other failure aborts the run.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	var sources []Source
	perCategory := make([]int, len(b.options.Categories))
	for i, c := range b.options.Categories {
		found, err := Sources(ctx, b.options.SourcesDir, c)
		if err != nil {
			return nil, errors.Wrapf(err, "could not list sources of %s", c.Slug)
		}
		sources = append(sources, found...)
		perCategory[i] = len(found)
	}
	logger.Info(ctx, "sources discovered", zap.Int("files", len(sources)))

	results := make([]result, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.options.Workers)
	for i, src := range sources {
		g.Go(func() error {
			res, err := b.extractFile(gctx, src)
			if err != nil {
				return errors.Wrapf(err, "could not extract %s", src.Path)
			}
			results[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Location: b.publisher.Location()}
	offset := 0
	for i, c := range b.options.Categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cr, err := b.publish(ctx, c, sources[offset:offset+perCategory[i]], results[offset:offset+perCategory[i]])
		if err != nil {
			return nil, err
		}
		report.Categories = append(report.Categories, cr)
		offset += perCategory[i]
	}

	return report, nil
}

func (b *Builder) publish(ctx context.Context, c domain.Category, sources []Source, results []result) (CategoryReport, error) {
	ctx = logger.WithFields(ctx, zap.String("category", c.Slug))

	set := domain.NewSet()
	cr := CategoryReport{Category: c, Files: len(sources)}
	for i, res := range results {
		if res.skipped {
			cr.Skipped = append(cr.Skipped, sources[i].Path)
		}
		set.Merge(res.set)
	}

	if err := b.publisher.Publish(ctx, c, set); err != nil {
		return CategoryReport{}, errors.Wrapf(err, "could not publish %s", c.Slug)
	}

	cr.Domains = set.Len()
	cr.Fingerprint = set.Fingerprint()
	b.recorder.Domains(ctx, c.Slug, cr.Domains)

	if cr.Domains == 0 {
		logger.Warn(ctx, "category has no domains", zap.Int("files", cr.Files))
	} else {
		logger.Info(ctx, "category built",
			zap.Int("domains", cr.Domains),
			zap.Int("files", cr.Files),
			zap.Int("skipped", len(cr.Skipped)),
			zap.String("fingerprint", cr.Fingerprint))
	}

	return cr, nil
}

// extractFile runs the extractor of src and applies the error policy: a file
// that vanished counts as empty, unparseable files are skipped, anything
// else is returned.
func (b *Builder) extractFile(ctx context.Context, src Source) (result, error) {
	if err := ctx.Err(); err != nil {
		return result{}, err
	}
	ctx = logger.WithFields(ctx, zap.String("category", src.Category), zap.String("path", src.Path))

	extractor, ok := b.extractors[src.Format]
	if !ok {
		return result{}, serrors.With(serrors.ErrInternal, "no extractor for format %q", src.Format)
	}

	start := time.Now()
	set, err := b.run(ctx, extractor, src.Path)
	b.recorder.ExtractDuration(ctx, src.Category, string(src.Format), time.Since(start))

	outcome := metrics.OutcomeOK
	res := result{set: set}
	switch serrors.KindOf(err) {
	case nil:
		logger.Debug(ctx, "source extracted", zap.Int("domains", set.Len()))
	case serrors.ErrNotFound:
		logger.Debug(ctx, "source vanished before extraction", zap.Error(err))
		outcome = metrics.OutcomeMissing
		res = result{}
	case serrors.ErrMalformedSource:
		logger.Warn(ctx, "malformed source, skipping", zap.Error(err))
		outcome = metrics.OutcomeMalformed
		res = result{skipped: true}
	case serrors.ErrUndetectableDialect:
		logger.Error(ctx, "could not detect csv dialect, skipping", zap.Error(err))
		outcome = metrics.OutcomeSkipped
		res = result{skipped: true}
	default:
		return result{}, err
	}
	b.recorder.SourceFile(ctx, src.Category, string(src.Format), outcome)

	return res, nil
}

func (b *Builder) run(ctx context.Context, extractor extract.Extractor, path string) (domain.Set, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, serrors.Wrap(serrors.ErrNotFound, err, "source not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not open source")
	}
	defer func() { _ = f.Close() }()

	return extractor.Extract(ctx, f)
}
