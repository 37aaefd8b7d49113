// Package main is the entry point for the SuperBoost DCA dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fd1az/superboost/business/blockchain"
	blockchainDI "github.com/fd1az/superboost/business/blockchain/di"
	"github.com/fd1az/superboost/business/dashboard"
	"github.com/fd1az/superboost/business/dca"
	"github.com/fd1az/superboost/business/position"
	positionDI "github.com/fd1az/superboost/business/position/di"
	"github.com/fd1az/superboost/business/pricing"
	"github.com/fd1az/superboost/business/stream"
	"github.com/fd1az/superboost/business/token"
	"github.com/fd1az/superboost/internal/apm"
	"github.com/fd1az/superboost/internal/apperror"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/health"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/metrics"
	"github.com/fd1az/superboost/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("superboost %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// A subcommand implies CLI mode; the dashboard is the default.
	args := flag.Args()
	tuiMode := !*cliMode && len(args) == 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if apperror.Retryable(err) {
			fmt.Fprintln(os.Stderr, "a dependency is unavailable; try again shortly")
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: superboost [flags] [command]

Commands:
  positions                  list active streams
  account                    show balances and allowance
  price                      show the ETH/USD quote
  boosts                     list the incentive catalog
  start <monthly> [upgrade]  start a DCA stream (upgrade may be "max")
  delete [pool]              close the stream of pool (first active by default)
  register [pool]            register the stream for rewards

Without a command the dashboard starts; -cli follows the counters in the log.

Flags:
`)
	flag.PrintDefaults()
}

func parseLevel(s string) logger.Level {
	switch s {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func run(ctx context.Context, configPath string, tuiMode bool, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	var log *logger.Logger
	if tuiMode {
		// The dashboard owns the terminal.
		log = logger.New(io.Discard, parseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, parseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
		log.Info(ctx, "starting SuperBoost",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	if cfg.Telemetry.Enabled {
		stop, err := startTelemetry(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to start telemetry: %w", err)
		}
		defer stop()
	}

	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Dependency order: the wallet first, the read model last.
	modules := []monolith.Module{
		&blockchain.Module{},
		&token.Module{},
		&position.Module{},
		&stream.Module{},
		&dca.Module{},
		&pricing.Module{},
		&dashboard.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	healthServer := newHealthServer(cfg, mono)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Health.Port)
	}
	defer healthServer.Stop(context.Background())

	if tuiMode {
		return runTUI(ctx, mono, modules)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	return runCLI(ctx, mono, log, args)
}

// startTelemetry installs tracing and metrics. Spans go to the OTLP
// collector when an endpoint is configured; metrics are always scraped
// from the Prometheus port.
func startTelemetry(ctx context.Context, cfg *config.Config, log *logger.Logger) (func(), error) {
	traceOpts := []apm.TracerOption{apm.WithServiceName(cfg.Telemetry.ServiceName)}
	metricOpts := []metrics.OptionFn{
		metrics.WithServiceName(cfg.Telemetry.ServiceName),
		metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
	}
	if ep := cfg.Telemetry.OTLPEndpoint; ep != "" {
		traceOpts = append(traceOpts, apm.WithProvider(apm.OTLPGRPCProvider, ep))
		metricOpts = append(metricOpts, metrics.WithProviderConfig(metrics.NewOtelCollectorConfig(ep, nil, false)))
	}

	tp, err := apm.NewTraceProvider(log, traceOpts...)
	if err != nil {
		return nil, err
	}
	mp, err := metrics.NewMetricProvider(metricOpts...)
	if err != nil {
		tp.Stop()
		return nil, err
	}

	port := cfg.Telemetry.PrometheusPort
	go func() {
		if err := metrics.ServePrometheusMetrics(ctx, port); err != nil {
			log.Error(ctx, "prometheus server stopped", "error", err)
		}
	}()
	log.Info(ctx, "prometheus metrics server started", "port", port)

	return func() {
		if err := tp.Stop(); err != nil {
			log.Warn(context.Background(), "trace provider shutdown failed", "error", err)
		}
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Warn(context.Background(), "meter provider shutdown failed", "error", err)
		}
	}, nil
}

func newHealthServer(cfg *config.Config, mono monolith.Monolith) *health.Server {
	srv := health.NewServer(cfg.Health.Port, version)
	sr := mono.Services()

	srv.RegisterCheck("rpc", func(ctx context.Context) (bool, string) {
		n, err := blockchainDI.GetBlockchainService(sr).BlockNumber(ctx)
		if err != nil {
			return false, err.Error()
		}
		return true, fmt.Sprintf("block %d", n)
	})
	srv.RegisterCheck("subgraph", func(ctx context.Context) (bool, string) {
		account := blockchainDI.GetWallet(sr).Account()
		pools, err := positionDI.GetPoolSource(sr).FetchPools(ctx, cfg.Contracts.PoolAdminAddress(), account)
		if err != nil {
			return false, err.Error()
		}
		return true, fmt.Sprintf("%d pools", len(pools))
	})
	srv.RegisterCheck("wallet", func(ctx context.Context) (bool, string) {
		bc := blockchainDI.GetBlockchainService(sr)
		if bc.CanSign() {
			return true, "signer " + bc.Account().Hex()
		}
		// Watch-only is a valid mode, not a failure.
		return true, "watch-only " + bc.Account().Hex()
	})
	return srv
}
