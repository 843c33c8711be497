// Package repository loads name tables from a data provider.
package repository

import (
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *CSVStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager that records load statistics.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *CSVStore) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithComma sets the field delimiter. Defaults to ','.
func WithComma(r rune) Option {
	return func(s *CSVStore) {
		if r != 0 {
			s.comma = r
		}
	}
}
