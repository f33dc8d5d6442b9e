// Package metrics records build statistics with OpenTelemetry instruments
// backed by a Prometheus registry. A build is a short-lived process, so the
// registry is exported as a node_exporter textfile instead of being scraped.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Source file outcomes reported by SourceFile.
const (
	OutcomeOK        = "ok"
	OutcomeMalformed = "malformed"
	OutcomeSkipped   = "skipped"
	OutcomeMissing   = "missing"
)

// Recorder owns the instruments of a build run.
type Recorder struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	sourceFiles metric.Int64Counter
	domains     metric.Int64Gauge
	duration    metric.Float64Histogram
}

// New creates a Recorder with its own registry, so repeated builds in the same
// process (e.g. tests) never collide on metric registration.
func New() (*Recorder, error) {
	registry := prometheus.NewRegistry()

	exp, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	meter := provider.Meter("blocklists")

	sourceFiles, err := meter.Int64Counter("blocklists_source_files",
		metric.WithDescription("Source files processed, by category, format and outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create source files counter: %w", err)
	}

	domains, err := meter.Int64Gauge("blocklists_domains",
		metric.WithDescription("Domains published per category in the last build."))
	if err != nil {
		return nil, fmt.Errorf("could not create domains gauge: %w", err)
	}

	duration, err := meter.Float64Histogram("blocklists_extract_duration",
		metric.WithDescription("Time spent extracting domains from a single source file."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create extract duration histogram: %w", err)
	}

	return &Recorder{
		registry:    registry,
		provider:    provider,
		sourceFiles: sourceFiles,
		domains:     domains,
		duration:    duration,
	}, nil
}

// SourceFile counts one processed source file.
func (r *Recorder) SourceFile(ctx context.Context, category, format, outcome string) {
	r.sourceFiles.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("format", format),
		attribute.String("outcome", outcome),
	))
}

// ExtractDuration observes how long extracting a single file took.
func (r *Recorder) ExtractDuration(ctx context.Context, category, format string, d time.Duration) {
	r.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("format", format),
	))
}

// Domains sets the number of domains published for a category.
func (r *Recorder) Domains(ctx context.Context, category string, n int) {
	r.domains.Record(ctx, int64(n), metric.WithAttributes(attribute.String("category", category)))
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.registry }

// WriteTextfile writes the current state of all instruments to path in the
// Prometheus text format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if err := r.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}
