package config

import (
	"io/fs"
	"os"
	"time"

	"blocklists/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, source and output locations,
// published metadata and build behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment default log level when set (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// Paths contains the input and output locations
	Paths struct {
		// Sources is the root directory holding the raw source files
		Sources string `env:"SOURCES_DIR" env-default:"sources" yaml:"sources"`
		// Dist is the directory the generated lists are written to
		Dist string `env:"DIST_DIR" env-default:"dist" yaml:"dist"`
	} `yaml:"paths"`

	// Publish contains the metadata advertised in rule file headers
	Publish struct {
		// Homepage is the project URL
		Homepage string `env:"PUBLISH_HOMEPAGE" env-default:"https://github.com/GloomyD/blocklists" yaml:"homepage"`
		// License is the license identifier of the published lists
		License string `env:"PUBLISH_LICENSE" env-default:"CC-BY-4.0" yaml:"license"`
	} `yaml:"publish"`

	// Build contains the aggregation settings
	Build struct {
		// Workers is the number of source files extracted concurrently, 0 selects the default
		Workers int `env:"BUILD_WORKERS" env-default:"4" yaml:"workers"`
		// Timeout bounds a whole build run
		Timeout time.Duration `env:"BUILD_TIMEOUT" env-default:"5m" yaml:"timeout"`
	} `yaml:"build"`

	// Metrics contains the metrics export settings
	Metrics struct {
		// Textfile is the path of a node_exporter textfile the build metrics are written to, empty disables it
		Textfile string `env:"METRICS_TEXTFILE" yaml:"textfile"`
	} `yaml:"metrics"`
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: defaults and environment variables are used instead.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, err := os.Stat(configPath)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, errors.Wrap(err, "could not read config")
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "could not read config from env")
		}
	default:
		return nil, errors.Wrap(err, "could not stat config file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values cleanenv cannot enforce.
func (c *Config) Validate() error {
	if c.Paths.Sources == "" {
		return serrors.With(serrors.ErrInvalidConfig, "paths.sources must not be empty")
	}
	if c.Paths.Dist == "" {
		return serrors.With(serrors.ErrInvalidConfig, "paths.dist must not be empty")
	}
	if c.Build.Workers < 1 {
		return serrors.With(serrors.ErrInvalidConfig, "build.workers must be at least 1, got %d", c.Build.Workers)
	}
	if c.Build.Timeout < 0 {
		return serrors.With(serrors.ErrInvalidConfig, "build.timeout must not be negative")
	}

	return nil
}
