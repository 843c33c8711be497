// Package onomastikon generates random human names from locale-tagged
// first-name and last-name frequency tables.
//
// An Onomastikon loads both tables once at construction and never touches
// storage again. Single-name draws report absence through a boolean instead
// of an error; RandomName reports it as the empty string.
package onomastikon

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/onomastikon/internal/adapters/datadir"
	"github.com/okian/onomastikon/internal/adapters/repository"
	"github.com/okian/onomastikon/internal/domain/model"
	"github.com/okian/onomastikon/internal/domain/sampler"
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

// Defaults for the optional arguments of the draw methods.
const (
	DefaultUseWeights                = true
	DefaultIncludeMiddleName         = false
	DefaultSecondNameProbability     = 0
	DefaultSecondLastNameProbability = 0
)

// Common gender tags used by the bundled data.
const (
	Female = "F"
	Male   = "M"
)

// Error kinds surfaced by the package.
var (
	ErrResourceNotFound   = repository.ErrResourceNotFound
	ErrMalformedRecord    = repository.ErrMalformedRecord
	ErrNoSamplableRecords = sampler.ErrNoSamplableRecords
	ErrWeightOverflow     = sampler.ErrWeightOverflow
)

// Onomastikon draws random names for one locale, or for all locales.
type Onomastikon struct {
	id     string
	locale string

	provider datadir.Provider
	store    repository.Store
	seed     *int64

	sampler *sampler.Sampler

	logger  logger.Logger
	metrics *metrics.Manager
}

// New loads the first-name and last-name tables and returns a ready
// Onomastikon. Without options it reads the bundled data for every locale.
// Any load error aborts construction.
func New(ctx context.Context, opts ...Option) (*Onomastikon, error) {
	o := &Onomastikon{
		id:       uuid.NewString(),
		provider: datadir.Embedded(),
		logger:   logger.GetOrNop(),
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(logger.String("instance", o.id))

	if o.store == nil {
		o.store = repository.NewCSVStore(o.provider,
			repository.WithLogger(o.logger),
			repository.WithMetrics(o.metrics),
		)
	}

	first, err := o.store.Load(ctx, model.FirstNames, o.locale)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", model.FirstNames, err)
	}
	last, err := o.store.Load(ctx, model.LastNames, o.locale)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", model.LastNames, err)
	}

	sopts := []sampler.Option{
		sampler.WithLogger(o.logger),
		sampler.WithMetrics(o.metrics),
	}
	if o.seed != nil {
		sopts = append(sopts, sampler.WithSeed(*o.seed))
	}
	o.sampler = sampler.New(first, last, sopts...)

	o.logger.Info(ctx, "name tables loaded",
		logger.String("locale", o.localeLabel()),
		logger.Int("firstNames", len(first)),
		logger.Int("lastNames", len(last)),
	)
	return o, nil
}

// ID returns the instance identifier attached to log lines.
func (o *Onomastikon) ID() string { return o.id }

// Locale returns the locale filter, empty meaning all locales.
func (o *Onomastikon) Locale() string { return o.locale }

// FirstNames returns a copy of the loaded first-name table.
func (o *Onomastikon) FirstNames() model.NameTable { return o.sampler.FirstNames() }

// LastNames returns a copy of the loaded last-name table.
func (o *Onomastikon) LastNames() model.NameTable { return o.sampler.LastNames() }

// RandomFirstName draws a first name. ok is false when no first name of
// gender exists.
func (o *Onomastikon) RandomFirstName(gender string, useWeights bool) (name string, ok bool, err error) {
	return o.sampler.RandomFirstName(gender, useWeights)
}

// RandomLastName draws a last name. ok is false when no last name of gender
// exists.
func (o *Onomastikon) RandomLastName(gender string, useWeights bool) (name string, ok bool, err error) {
	return o.sampler.RandomLastName(gender, useWeights)
}

// RandomFullName draws "first [middle] last". ok is false when either the
// first or the last name is unavailable.
func (o *Onomastikon) RandomFullName(gender string, useWeights, includeMiddleName bool) (name string, ok bool, err error) {
	return o.sampler.RandomFullName(gender, useWeights, includeMiddleName)
}

// RandomName draws a name with optional second given and second family
// names, each included with the given percent probability. It returns ""
// when nothing could be drawn.
func (o *Onomastikon) RandomName(gender string, useWeights bool, secondNameProbability, secondLastNameProbability int) (string, error) {
	return o.sampler.RandomName(gender, useWeights, secondNameProbability, secondLastNameProbability)
}

func (o *Onomastikon) localeLabel() string {
	if o.locale == "" {
		return "all"
	}
	return o.locale
}
