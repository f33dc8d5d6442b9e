package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"blocklists/internal/builder"
	"blocklists/internal/config"
	"blocklists/internal/extract"
	"blocklists/internal/publish"
	"blocklists/pkg/logger"
	"blocklists/pkg/metrics"
	"blocklists/pkg/storage/fsstorage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func buildCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Regenerates every blocklist from the sources directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Build.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Build.Timeout)
				defer cancel()
			}
			ctx = logger.WithFields(logger.Named(ctx, "build"), zap.String("run_id", uuid.NewString()))

			report, err := runBuild(ctx, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "OK:")
			for _, c := range report.Categories {
				_, _ = fmt.Fprintf(out, "  - %s: %d domains\n", c.Category.Slug, c.Domains)
			}
			_, _ = fmt.Fprintf(out, "Generated in: %s\n", report.Location)

			return nil
		},
	}

	return cmd
}

// runBuild wires storage, publisher and metrics from cfg and runs a build.
func runBuild(ctx context.Context, cfg *config.Config) (*builder.Report, error) {
	rec, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("could not create metrics recorder: %w", err)
	}
	defer func() {
		if err := rec.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn(ctx, "could not shut down metrics", zap.Error(err))
		}
	}()

	st, err := fsstorage.New(fsstorage.Options{Dir: cfg.Paths.Dist})
	if err != nil {
		return nil, fmt.Errorf("could not create output storage: %w", err)
	}

	pub := publish.New(st, publish.Options{
		Homepage: cfg.Publish.Homepage,
		License:  cfg.Publish.License,
	})

	logger.Info(ctx, "starting build",
		zap.String("sources", cfg.Paths.Sources),
		zap.String("dist", cfg.Paths.Dist),
		zap.Int("workers", cfg.Build.Workers))

	report, err := builder.New(pub, extract.Default(), rec, builder.NewOptions(cfg)).Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not build blocklists: %w", err)
	}

	if cfg.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return nil, fmt.Errorf("could not write metrics: %w", err)
		}
		logger.Debug(ctx, "metrics written", zap.String("path", cfg.Metrics.Textfile))
	}

	return report, nil
}
