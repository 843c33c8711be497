// Package sampler draws random names from loaded name tables.
package sampler

import (
	"math/rand"

	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithSeed makes the sampler deterministic for a given seed.
func WithSeed(seed int64) Option {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // names are not security sensitive
	}
}

// WithRand sets the random source. The sampler serializes access to it.
func WithRand(rng *rand.Rand) Option {
	return func(s *Sampler) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Sampler) {
		if m != nil {
			s.metrics = m
		}
	}
}
