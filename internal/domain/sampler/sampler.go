// Package sampler draws random names from loaded name tables.
package sampler

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/okian/onomastikon/internal/domain/model"
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

const (
	// MaxProbability is the upper bound of the percentage arguments of RandomName.
	MaxProbability = 100

	surnameJoiner = "-"
	nameJoiner    = " "
)

// Name kinds reported to metrics.
const (
	kindFirst     = "first"
	kindLast      = "last"
	kindFull      = "full"
	kindComposite = "composite"
)

// Sampler draws names from a first-name and a last-name table. The tables
// are fixed at construction; draws are independent of each other.
type Sampler struct {
	first model.NameTable
	last  model.NameTable

	mu  sync.Mutex
	rng *rand.Rand

	logger  logger.Logger
	metrics *metrics.Manager
}

// New creates a Sampler over copies of first and last.
func New(first, last model.NameTable, opts ...Option) *Sampler {
	s := &Sampler{
		first:   first.Clone(),
		last:    last.Clone(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // names are not security sensitive
		logger:  logger.GetOrNop(),
		metrics: metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FirstNames returns a copy of the first-name table.
func (s *Sampler) FirstNames() model.NameTable { return s.first.Clone() }

// LastNames returns a copy of the last-name table.
func (s *Sampler) LastNames() model.NameTable { return s.last.Clone() }

// SampleWeighted draws one record of the given gender from table. With
// useWeights each record is drawn proportionally to its occurrences;
// otherwise every record is equally likely. ok is false when table holds no
// record of that gender. A weighted draw over records that all have zero
// occurrences fails with ErrNoSamplableRecords.
func (s *Sampler) SampleWeighted(table model.NameTable, gender string, useWeights bool) (model.NameRecord, bool, error) {
	return s.sample("", table, gender, useWeights)
}

func (s *Sampler) sample(name string, table model.NameTable, gender string, useWeights bool) (model.NameRecord, bool, error) {
	if name != "" {
		s.metrics.RecordDraw(name, useWeights)
	}

	candidates := table.FilterGender(gender)
	if len(candidates) == 0 {
		if name != "" {
			s.metrics.RecordAbsentDraw(name)
		}
		return model.NameRecord{}, false, nil
	}

	if !useWeights {
		return candidates[s.intn(len(candidates))], true, nil
	}

	total, ok := candidates.TotalOccurrences()
	if !ok {
		return model.NameRecord{}, false, fmt.Errorf("%w: gender %q over %d records",
			ErrWeightOverflow, gender, len(candidates))
	}
	if total == 0 {
		if name != "" {
			s.metrics.RecordZeroWeightDraw(name)
		}
		return model.NameRecord{}, false, fmt.Errorf("%w: gender %q has %d records with zero total occurrences",
			ErrNoSamplableRecords, gender, len(candidates))
	}

	// Walk the cumulative weights; a zero-weight record never covers the draw.
	target := s.int63n(total)
	var cumulative int64
	for _, r := range candidates {
		cumulative += int64(r.Occurrences)
		if target < cumulative {
			return r, true, nil
		}
	}
	// Unreachable while target < total.
	return candidates[len(candidates)-1], true, nil
}

// RandomFirstName draws a first name of the given gender.
func (s *Sampler) RandomFirstName(gender string, useWeights bool) (string, bool, error) {
	name, ok, err := s.firstName(gender, useWeights)
	if ok {
		s.metrics.RecordNameGenerated(kindFirst)
	}
	return name, ok, err
}

// RandomLastName draws a last name of the given gender.
func (s *Sampler) RandomLastName(gender string, useWeights bool) (string, bool, error) {
	name, ok, err := s.lastName(gender, useWeights)
	if ok {
		s.metrics.RecordNameGenerated(kindLast)
	}
	return name, ok, err
}

// RandomFullName draws "first last", or "first middle last" when
// includeMiddleName is set and a middle name is available. First and last
// names are always drawn by weight; the middle name honors useWeights.
// ok is false when either the first or the last name is unavailable.
func (s *Sampler) RandomFullName(gender string, useWeights, includeMiddleName bool) (string, bool, error) {
	first, ok, err := s.firstName(gender, true)
	if err != nil || !ok {
		return "", false, err
	}
	last, ok, err := s.lastName(gender, true)
	if err != nil || !ok {
		return "", false, err
	}

	var middle string
	if includeMiddleName {
		if middle, _, err = s.firstName(gender, useWeights); err != nil {
			return "", false, err
		}
	}

	s.metrics.RecordNameGenerated(kindFull)
	return joinPresent(nameJoiner, first, middle, last), true, nil
}

// RandomName builds a name from a first and a last name, adding a second
// given name with secondNameProbability percent chance and a hyphenated
// second family name with secondLastNameProbability percent chance.
// Unavailable parts are skipped; when none resolve the result is "".
func (s *Sampler) RandomName(gender string, useWeights bool, secondNameProbability, secondLastNameProbability int) (string, error) {
	first, _, err := s.firstName(gender, useWeights)
	if err != nil {
		return "", err
	}
	last, _, err := s.lastName(gender, useWeights)
	if err != nil {
		return "", err
	}

	var second, secondLast string
	if s.chance(secondNameProbability) {
		if second, _, err = s.firstName(gender, useWeights); err != nil {
			return "", err
		}
	}
	if s.chance(secondLastNameProbability) {
		if secondLast, _, err = s.lastName(gender, useWeights); err != nil {
			return "", err
		}
	}

	given := joinPresent(nameJoiner, first, second)
	family := joinPresent(surnameJoiner, last, secondLast)
	name := joinPresent(nameJoiner, given, family)

	if name == "" {
		s.logger.Debug(context.Background(), "no name components resolved", logger.String("gender", gender))
		return "", nil
	}
	s.metrics.RecordNameGenerated(kindComposite)
	return name, nil
}

func (s *Sampler) firstName(gender string, useWeights bool) (string, bool, error) {
	r, ok, err := s.sample(model.FirstNames, s.first, gender, useWeights)
	return r.Name, ok, err
}

func (s *Sampler) lastName(gender string, useWeights bool) (string, bool, error) {
	r, ok, err := s.sample(model.LastNames, s.last, gender, useWeights)
	return r.Name, ok, err
}

// chance runs one Bernoulli trial: a uniform draw in [1,100] succeeds when it
// does not exceed percent.
func (s *Sampler) chance(percent int) bool {
	return s.intn(MaxProbability)+1 <= percent
}

func (s *Sampler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *Sampler) int63n(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int63n(n)
}

func joinPresent(sep string, parts ...string) string {
	present := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			present = append(present, p)
		}
	}
	return strings.Join(present, sep)
}
