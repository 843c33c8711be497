// Package datadir resolves logical name tables to readable resources and
// prepares the per-user data directory on first run.
package datadir

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Extension appended to a logical table name to find its file.
const Extension = ".csv"

//go:embed data/*.csv
var bundledFS embed.FS

// Provider opens the backing resource of a logical table.
type Provider interface {
	// Open returns a reader over the rows of table. The caller closes it.
	// A missing table yields an error matching ErrTableNotFound.
	Open(ctx context.Context, table string) (io.ReadCloser, error)
}

// FSProvider serves <table>.csv files from an fs.FS.
type FSProvider struct {
	fsys fs.FS
	root string
}

// NewFSProvider creates a provider over fsys. root is informational and is
// reported by Root; it may be empty.
func NewFSProvider(fsys fs.FS, root string) *FSProvider {
	return &FSProvider{fsys: fsys, root: root}
}

// NewDirProvider creates a provider over a directory on disk.
func NewDirProvider(dir string) *FSProvider {
	return NewFSProvider(os.DirFS(dir), dir)
}

// Embedded returns a provider over the tables bundled with the binary.
func Embedded() *FSProvider {
	sub, err := fs.Sub(bundledFS, "data")
	if err != nil {
		return NewFSProvider(bundledFS, "embedded")
	}
	return NewFSProvider(sub, "embedded")
}

// Root reports where the provider reads from.
func (p *FSProvider) Root() string {
	return p.root
}

// Open implements Provider.
func (p *FSProvider) Open(ctx context.Context, table string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := fileName(table)
	if err != nil {
		return nil, err
	}
	f, err := p.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
		}
		return nil, fmt.Errorf("open table %s: %w", table, err)
	}
	return f, nil
}

// fileName maps a logical table name to its file, rejecting anything that
// could escape the provider root.
func fileName(table string) (string, error) {
	if table == "" || strings.ContainsAny(table, `/\`) || !fs.ValidPath(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return table + Extension, nil
}
