package datadir

import (
	"io/fs"

	"github.com/okian/onomastikon/internal/domain/model"
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

// Option applies a configuration option to the Bootstrapper.
type Option func(*Bootstrapper)

// WithAppName sets the directory name used under the user config and data roots.
func WithAppName(name string) Option {
	return func(b *Bootstrapper) {
		if name != "" {
			b.appName = name
		}
	}
}

// WithVersion sets the data version stamped into the config file.
func WithVersion(version string) Option {
	return func(b *Bootstrapper) {
		if version != "" {
			b.version = version
		}
	}
}

// WithConfigDir overrides the resolved user config directory.
func WithConfigDir(dir string) Option {
	return func(b *Bootstrapper) {
		if dir != "" {
			b.configDir = dir
		}
	}
}

// WithDataDir overrides the resolved user data directory.
func WithDataDir(dir string) Option {
	return func(b *Bootstrapper) {
		if dir != "" {
			b.dataDir = dir
		}
	}
}

// WithSource sets the filesystem data files are copied from.
func WithSource(src fs.FS) Option {
	return func(b *Bootstrapper) {
		if src != nil {
			b.source = src
		}
	}
}

// WithTables sets the logical tables copied on first run.
func WithTables(tables ...string) Option {
	return func(b *Bootstrapper) {
		if len(tables) > 0 {
			b.tables = tables
		}
	}
}

// WithLogger sets the logger used during bootstrap.
func WithLogger(l logger.Logger) Option {
	return func(b *Bootstrapper) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the metrics manager used during bootstrap.
func WithMetrics(m *metrics.Manager) Option {
	return func(b *Bootstrapper) {
		if m != nil {
			b.metrics = m
		}
	}
}

func defaultTables() []string {
	return []string{model.FirstNames, model.LastNames}
}
