package onomastikon

import (
	"github.com/okian/onomastikon/internal/adapters/datadir"
	"github.com/okian/onomastikon/internal/adapters/repository"
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

// Option applies a configuration option to New.
type Option func(*Onomastikon)

// WithLocale restricts both tables to records of locale. An empty locale
// keeps every locale.
func WithLocale(locale string) Option {
	return func(o *Onomastikon) {
		o.locale = locale
	}
}

// WithDataDir reads tables from <dir>/first_names.csv and <dir>/last_names.csv.
func WithDataDir(dir string) Option {
	return func(o *Onomastikon) {
		if dir != "" {
			o.provider = datadir.NewDirProvider(dir)
		}
	}
}

// WithProvider reads tables through p instead of the bundled data.
func WithProvider(p datadir.Provider) Option {
	return func(o *Onomastikon) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithStore loads tables through store; it takes precedence over any provider.
func WithStore(store repository.Store) Option {
	return func(o *Onomastikon) {
		if store != nil {
			o.store = store
		}
	}
}

// WithSeed makes draws reproducible.
func WithSeed(seed int64) Option {
	return func(o *Onomastikon) {
		o.seed = &seed
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Onomastikon) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(o *Onomastikon) {
		if m != nil {
			o.metrics = m
		}
	}
}
