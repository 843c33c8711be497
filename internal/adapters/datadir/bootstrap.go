package datadir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
)

// BundledVersion identifies the data set compiled into the binary. Changing it
// makes existing installations recopy their data files.
const BundledVersion = "1.2.0"

const (
	defaultAppName = "onomastikon"
	stampFileName  = "config.yaml"
	dataSubdir     = "data"
	dirPermission  = 0o755
	filePermission = 0o644

	keyVersion = "onomastikon.version"
	keyCopied  = "onomastikon.copied"
)

// Stamp is the persisted first-run state.
type Stamp struct {
	Version string
	Copied  bool
}

// Bootstrapper prepares the user config and data directories.
type Bootstrapper struct {
	appName   string
	version   string
	configDir string
	dataDir   string
	source    fs.FS
	tables    []string

	logger  logger.Logger
	metrics *metrics.Manager
}

// NewBootstrapper creates a Bootstrapper with defaults resolved from the
// current user's environment.
func NewBootstrapper(opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		appName: defaultAppName,
		version: BundledVersion,
		tables:  defaultTables(),
		logger:  logger.GetOrNop(),
		metrics: metrics.Default(),
	}
	if sub, err := fs.Sub(bundledFS, "data"); err == nil {
		b.source = sub
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bootstrap runs the first-run setup with opts and returns a provider over the
// user data directory.
func Bootstrap(ctx context.Context, opts ...Option) (*FSProvider, error) {
	return NewBootstrapper(opts...).Run(ctx)
}

// ConfigDir returns the directory holding the stamp file.
func (b *Bootstrapper) ConfigDir() (string, error) {
	if b.configDir != "" {
		return b.configDir, nil
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: resolve config dir: %w", ErrBootstrap, err)
	}
	return filepath.Join(root, b.appName), nil
}

// DataDir returns the directory data files are copied into.
func (b *Bootstrapper) DataDir() (string, error) {
	if b.dataDir != "" {
		return b.dataDir, nil
	}
	root, err := userDataRoot()
	if err != nil {
		return "", fmt.Errorf("%w: resolve data dir: %w", ErrBootstrap, err)
	}
	return filepath.Join(root, b.appName), nil
}

// Run creates missing directories, writes the stamp on first run and copies
// the data files when they are missing or the stamped version differs.
func (b *Bootstrapper) Run(ctx context.Context) (*FSProvider, error) {
	configDir, err := b.ConfigDir()
	if err != nil {
		return nil, err
	}
	dataDir, err := b.DataDir()
	if err != nil {
		return nil, err
	}
	tablesDir := filepath.Join(dataDir, dataSubdir)

	for _, dir := range []string{configDir, tablesDir} {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", ErrBootstrap, dir, err)
		}
	}

	stampPath := filepath.Join(configDir, stampFileName)
	stamp, err := ReadStamp(stampPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		stamp = Stamp{Version: b.version}
		if err := b.writeStamp(stampPath, stamp); err != nil {
			return nil, err
		}
		b.logger.Info(ctx, "created config file", logger.String("path", stampPath))
	case err != nil:
		return nil, err
	}

	if b.needsCopy(stamp, tablesDir) {
		if b.source == nil {
			return nil, fmt.Errorf("%w: no data source", ErrBootstrap)
		}
		for _, table := range b.tables {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := b.copyTable(table, tablesDir); err != nil {
				return nil, err
			}
			b.metrics.RecordFileCopied()
		}
		if err := b.writeStamp(stampPath, Stamp{Version: b.version, Copied: true}); err != nil {
			return nil, err
		}
		b.logger.Info(ctx, "copied data files",
			logger.String("dir", tablesDir),
			logger.String("version", b.version),
			logger.Int("files", len(b.tables)),
		)
	} else {
		b.logger.Debug(ctx, "data files up to date", logger.String("dir", tablesDir))
	}

	return NewDirProvider(tablesDir), nil
}

func (b *Bootstrapper) needsCopy(stamp Stamp, tablesDir string) bool {
	if !stamp.Copied || stamp.Version != b.version {
		return true
	}
	for _, table := range b.tables {
		if _, err := os.Stat(filepath.Join(tablesDir, table+Extension)); err != nil {
			return true
		}
	}
	return false
}

// copyTable writes the table through a temp file so a failed copy never leaves
// a truncated table behind.
func (b *Bootstrapper) copyTable(table, dir string) error {
	name, err := fileName(table)
	if err != nil {
		return err
	}
	src, err := b.source.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w: %s", ErrBootstrap, ErrTableNotFound, table)
		}
		return fmt.Errorf("%w: open %s: %w", ErrBootstrap, name, err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: copy %s: %w", ErrBootstrap, name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	if err := os.Chmod(tmp.Name(), filePermission); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}
	return nil
}

func (b *Bootstrapper) writeStamp(path string, s Stamp) error {
	k := koanf.New(".")
	if err := k.Set(keyVersion, s.Version); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrBootstrap, keyVersion, err)
	}
	if err := k.Set(keyCopied, s.Copied); err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrBootstrap, keyCopied, err)
	}

	body, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("%w: encode stamp: %w", ErrBootstrap, err)
	}
	header := fmt.Sprintf("# %s configuration file\n# Version: %s\n\n", b.appName, s.Version)
	if err := os.WriteFile(path, append([]byte(header), body...), filePermission); err != nil {
		return fmt.Errorf("%w: write stamp: %w", ErrBootstrap, err)
	}
	return nil
}

// ReadStamp loads the stamp file at path. A missing file yields an error
// matching fs.ErrNotExist.
func ReadStamp(path string) (Stamp, error) {
	if _, err := os.Stat(path); err != nil {
		return Stamp{}, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Stamp{}, fmt.Errorf("%w: read stamp: %w", ErrBootstrap, err)
	}
	return Stamp{
		Version: k.String(keyVersion),
		Copied:  k.Bool(keyCopied),
	}, nil
}

// userDataRoot mirrors the per-platform user data locations: XDG_DATA_HOME or
// ~/.local/share on Unix, Application Support on macOS, LocalAppData on Windows.
func userDataRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
		return "", errors.New("LOCALAPPDATA is not set")
	case "darwin", "ios":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" && filepath.IsAbs(dir) {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}
