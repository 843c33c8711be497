package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/onomastikon/internal/adapters/datadir"
	"github.com/okian/onomastikon/internal/domain/model"
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

const (
	utf8BOM = "\ufeff"

	errKindNotFound  = "not_found"
	errKindMalformed = "malformed"
	errKindIO        = "io"
)

// CSVStore implements Store over comma-separated tables served by a
// datadir.Provider. Columns are name, gender, locale, occurrences; extra
// columns are ignored and an optional leading header row is skipped.
type CSVStore struct {
	provider datadir.Provider
	comma    rune

	logger  logger.Logger
	metrics *metrics.Manager
}

// NewCSVStore creates a store reading tables from provider.
func NewCSVStore(provider datadir.Provider, opts ...Option) *CSVStore {
	s := &CSVStore{
		provider: provider,
		comma:    ',',
		logger:   logger.GetOrNop(),
		metrics:  metrics.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements Store.
func (s *CSVStore) Load(ctx context.Context, table string, locale string) (model.NameTable, error) {
	start := time.Now()

	records, err := s.load(ctx, table, locale)
	if err != nil {
		s.metrics.RecordLoadError(table, errorKind(err))
		s.logger.Debug(ctx, "table load failed", logger.String("table", table), logger.Error(err))
		return nil, err
	}

	s.metrics.RecordRecordsLoaded(table, len(records))
	s.metrics.RecordLoadDuration(table, float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "table loaded",
		logger.String("table", table),
		logger.String("locale", locale),
		logger.Int("records", len(records)),
	)
	return records, nil
}

func (s *CSVStore) load(ctx context.Context, table, locale string) (model.NameTable, error) {
	rc, err := s.provider.Open(ctx, table)
	if err != nil {
		if errors.Is(err, datadir.ErrTableNotFound) || errors.Is(err, datadir.ErrInvalidTable) {
			return nil, fmt.Errorf("%w: %s: %w", ErrResourceNotFound, table, err)
		}
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	r := csv.NewReader(rc)
	r.Comma = s.comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	var (
		out   model.NameTable
		total int64
	)
	for first := true; ; first = false {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: %s: %w", ErrMalformedRecord, table, err)
			}
			return nil, fmt.Errorf("read %s: %w", table, err)
		}
		line, _ := r.FieldPos(0)

		if first {
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
			if isHeader(row) {
				continue
			}
		}

		rec, err := parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %w", ErrMalformedRecord, table, line, err)
		}
		if locale != "" && rec.Locale != locale {
			continue
		}
		// Weighted draws sum occurrences as int64; a table whose sum does not fit cannot be sampled.
		if int64(rec.Occurrences) > math.MaxInt64-total {
			return nil, fmt.Errorf("%w: %s line %d: total occurrences overflow", ErrMalformedRecord, table, line)
		}
		total += int64(rec.Occurrences)
		out = append(out, rec)
	}
	return out, nil
}

func parseRecord(row []string) (model.NameRecord, error) {
	if len(row) < model.ColumnCount {
		return model.NameRecord{}, fmt.Errorf("want %d columns, got %d", model.ColumnCount, len(row))
	}
	raw := strings.TrimSpace(row[model.ColumnOccurrences])
	n, err := strconv.Atoi(raw)
	if err != nil {
		return model.NameRecord{}, fmt.Errorf("occurrences %q is not an integer", raw)
	}
	if n < 0 {
		return model.NameRecord{}, fmt.Errorf("occurrences %d is negative", n)
	}
	name := strings.TrimSpace(row[model.ColumnName])
	if name == "" {
		return model.NameRecord{}, errors.New("name is empty")
	}
	return model.NameRecord{
		Name:        name,
		Gender:      strings.TrimSpace(row[model.ColumnGender]),
		Locale:      strings.TrimSpace(row[model.ColumnLocale]),
		Occurrences: n,
	}, nil
}

// isHeader reports whether row is the column header written by the data
// export: name, gender, <locale column>, occurrences.
func isHeader(row []string) bool {
	if len(row) < model.ColumnCount {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[model.ColumnName]), "name") &&
		strings.EqualFold(strings.TrimSpace(row[model.ColumnGender]), "gender") &&
		strings.EqualFold(strings.TrimSpace(row[model.ColumnOccurrences]), "occurrences")
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrResourceNotFound):
		return errKindNotFound
	case errors.Is(err, ErrMalformedRecord):
		return errKindMalformed
	default:
		return errKindIO
	}
}
