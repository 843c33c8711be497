package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/okian/onomastikon/internal/adapters/datadir"
	"github.com/okian/onomastikon/internal/config"
	"github.com/okian/onomastikon/pkg/logger"
	"github.com/okian/onomastikon/pkg/metrics"
	"github.com/okian/onomastikon/pkg/onomastikon"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if cfg.LogJSON {
		_ = logger.Init(logger.WithJSON(true))
	}
	loggerInstance := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance, os.Stdout); err != nil {
		loggerInstance.Error(ctx, "name generation failed", logger.Error(err))
		os.Exit(1)
	}
}

// run builds an Onomastikon from cfg and writes cfg.Count names to w, one per
// line. With cfg.MetricsFile set the metrics registry is dumped there last.
func run(ctx context.Context, cfg *config.Config, log logger.Logger, w io.Writer) error {
	provider, err := resolveProvider(ctx, cfg, log)
	if err != nil {
		return err
	}

	opts := []onomastikon.Option{
		onomastikon.WithProvider(provider),
		onomastikon.WithLocale(cfg.Locale),
		onomastikon.WithLogger(log),
	}
	if cfg.Seed != 0 {
		opts = append(opts, onomastikon.WithSeed(cfg.Seed))
	}
	o, err := onomastikon.New(ctx, opts...)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(w)
	for i := 0; i < cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, ok, err := generate(o, cfg)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn(ctx, "no name available",
				logger.String("locale", cfg.Locale),
				logger.String("gender", cfg.Gender),
				logger.String("mode", cfg.Mode),
			)
			break
		}
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	if err := out.Flush(); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsFile, metrics.GetRegistry()); err != nil {
			return fmt.Errorf("write metrics to %s: %w", cfg.MetricsFile, err)
		}
		log.Debug(ctx, "metrics written", logger.String("path", cfg.MetricsFile))
	}
	return nil
}

func resolveProvider(ctx context.Context, cfg *config.Config, log logger.Logger) (datadir.Provider, error) {
	switch {
	case cfg.DataDir != "":
		return datadir.NewDirProvider(cfg.DataDir), nil
	case cfg.UseEmbedded:
		return datadir.Embedded(), nil
	}
	return datadir.Bootstrap(ctx,
		datadir.WithConfigDir(cfg.ConfigDir),
		datadir.WithDataDir(cfg.UserDataDir),
		datadir.WithLogger(log),
	)
}

func generate(o *onomastikon.Onomastikon, cfg *config.Config) (string, bool, error) {
	switch cfg.Mode {
	case config.ModeFirst:
		return o.RandomFirstName(cfg.Gender, cfg.UseWeights)
	case config.ModeLast:
		return o.RandomLastName(cfg.Gender, cfg.UseWeights)
	case config.ModeFull:
		return o.RandomFullName(cfg.Gender, cfg.UseWeights, cfg.MiddleName)
	}
	name, err := o.RandomName(cfg.Gender, cfg.UseWeights, cfg.SecondNameProbability, cfg.SecondLastNameProbability)
	return name, name != "", err
}
