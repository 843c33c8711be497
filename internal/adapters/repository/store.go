// Package repository loads name tables from a data provider.
package repository

import (
	"context"

	"github.com/okian/onomastikon/internal/domain/model"
)

// Store loads named tables of name records.
type Store interface {
	// Load reads every record of table in storage order. A non-empty locale
	// keeps only records whose locale equals it exactly. Load is all-or-nothing:
	// on error no records are returned.
	Load(ctx context.Context, table string, locale string) (model.NameTable, error)
}
