// Package model contains domain models passed between layers.
package model

import "math"

// Logical table names understood by data providers.
const (
	FirstNames = "first_names"
	LastNames  = "last_names"
)

// Column order of a name table row.
const (
	ColumnName = iota
	ColumnGender
	ColumnLocale
	ColumnOccurrences

	ColumnCount
)

// NameRecord is a single row of a name frequency table.
type NameRecord struct {
	Name        string // given or family name
	Gender      string // categorical tag, e.g. "M", "F"
	Locale      string // region or country tag
	Occurrences int    // relative frequency, >= 0
}

// NameTable is an ordered sequence of records as loaded from storage.
type NameTable []NameRecord

// FilterGender returns the records whose gender equals gender, in table order.
func (t NameTable) FilterGender(gender string) NameTable {
	var out NameTable
	for _, r := range t {
		if r.Gender == gender {
			out = append(out, r)
		}
	}
	return out
}

// TotalOccurrences sums the occurrences of every record in the table. ok is
// false when the sum does not fit in an int64.
func (t NameTable) TotalOccurrences() (sum int64, ok bool) {
	for _, r := range t {
		n := int64(r.Occurrences)
		if n > math.MaxInt64-sum {
			return 0, false
		}
		sum += n
	}
	return sum, true
}

// Clone returns a copy that does not share backing storage with t.
func (t NameTable) Clone() NameTable {
	if t == nil {
		return nil
	}
	out := make(NameTable, len(t))
	copy(out, t)
	return out
}
