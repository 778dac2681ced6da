package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/domainhealth/internal/config"
	"github.com/hamed0406/domainhealth/internal/domain"
	"github.com/hamed0406/domainhealth/internal/httpapi"
	"github.com/hamed0406/domainhealth/internal/logging"
	"github.com/hamed0406/domainhealth/internal/probe"
	"github.com/hamed0406/domainhealth/internal/repo/memory"
	"github.com/hamed0406/domainhealth/internal/scheduler"
)

// Exit codes. The scheduler never finishes on its own, so a clean exit
// always means an interrupt.
const (
	exitInterrupted = 0
	exitConfig      = 1
	exitRuntime     = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := config.NewFlagSet("healthcheck")
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: healthcheck [flags] <endpoints.yaml>")
		fs.PrintDefaults()
	}

	cfg, err := config.Load(fs, args)
	if errors.Is(err, pflag.ErrHelp) {
		return exitInterrupted
	}
	if err != nil {
		fmt.Fprintln(stderr, "invalid configuration:", err)
		return exitConfig
	}

	specs, err := config.LoadEndpoints(cfg.EndpointsPath)
	if err != nil {
		fmt.Fprintln(stderr, "invalid endpoints file:", err)
		return exitConfig
	}

	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, "logger:", err)
		return exitConfig
	}
	defer logger.Sync()

	return serve(ctx, cfg, specs, logger, stdout, stderr)
}

func serve(ctx context.Context, cfg config.Settings, specs []domain.EndpointSpec, logger *zap.Logger, stdout, stderr io.Writer) int {
	mode := scheduler.ModeSequential
	if cfg.Concurrent {
		mode = scheduler.ModeConcurrent
	}

	ledger := memory.New()
	reporter := scheduler.MultiReporter{
		scheduler.NewTextReporter(stdout),
		scheduler.LogReporter{Logger: logger},
	}
	sched, err := scheduler.NewScheduler(
		logger,
		specs,
		ledger,
		probe.NewHTTPChecker(cfg.ProbeTimeout, cfg.LatencyThreshold),
		reporter,
		mode,
		cfg.Interval,
		cfg.MaxConcurrency,
	)
	if err != nil {
		fmt.Fprintln(stderr, "invalid endpoints file:", err)
		return exitConfig
	}

	fmt.Fprintf(stdout, "Loaded %d endpoints from %s, now processing them (%s)...\n", len(specs), cfg.EndpointsPath, mode)
	logger.Info("healthcheck_start",
		zap.String("endpoints_file", cfg.EndpointsPath),
		zap.Int("endpoints", len(specs)),
		zap.Stringer("mode", mode),
		zap.Duration("interval", cfg.Interval),
		zap.Duration("latency_threshold", cfg.LatencyThreshold),
		zap.Duration("probe_timeout", cfg.ProbeTimeout),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })

	if cfg.StatusAddr != "" {
		api := httpapi.NewServer(logger, ledger)
		srv := &http.Server{
			Addr:              cfg.StatusAddr,
			Handler:           api.Router(120, 60),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("status_api_listen", zap.String("addr", cfg.StatusAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("status api: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if ctx.Err() != nil {
		logger.Info("healthcheck_interrupted")
		fmt.Fprintln(stdout, "Interrupted, exiting...")
		return exitInterrupted
	}
	logger.Error("healthcheck_failed", zap.Error(err))
	fmt.Fprintln(stderr, "error:", err)
	return exitRuntime
}
